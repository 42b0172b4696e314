package auth

type Action string

const (
	ActionAppointmentRead       Action = "appointment.read"
	ActionAppointmentBook       Action = "appointment.book"
	ActionAppointmentConfirm    Action = "appointment.confirm"
	ActionAppointmentReschedule Action = "appointment.reschedule"
	ActionAppointmentCancel     Action = "appointment.cancel"
	ActionAppointmentComplete   Action = "appointment.complete"
	ActionTariffRead            Action = "tariff.read"
	ActionTariffWrite           Action = "tariff.write"
	ActionCatalogRead           Action = "catalog.read"
	ActionCatalogWrite          Action = "catalog.write"
	ActionPayrollRead           Action = "payroll.read"
	ActionPayrollReadOwn        Action = "payroll.read_own"
	ActionDiscountWrite         Action = "payroll.discount.write"
	ActionAuditRead             Action = "audit.read"
	ActionMetricsRead           Action = "metrics.read"
)

var Actions = []Action{
	ActionAppointmentRead,
	ActionAppointmentBook,
	ActionAppointmentConfirm,
	ActionAppointmentReschedule,
	ActionAppointmentCancel,
	ActionAppointmentComplete,
	ActionTariffRead,
	ActionTariffWrite,
	ActionCatalogRead,
	ActionCatalogWrite,
	ActionPayrollRead,
	ActionPayrollReadOwn,
	ActionDiscountWrite,
	ActionAuditRead,
	ActionMetricsRead,
}

var RoleCapabilities = map[Role][]Action{
	RoleAdmin: {
		ActionAppointmentRead,
		ActionAppointmentBook,
		ActionAppointmentConfirm,
		ActionAppointmentReschedule,
		ActionAppointmentCancel,
		ActionAppointmentComplete,
		ActionTariffRead,
		ActionTariffWrite,
		ActionCatalogRead,
		ActionCatalogWrite,
		ActionPayrollRead,
		ActionDiscountWrite,
		ActionAuditRead,
		ActionMetricsRead,
	},
	RoleReceptionist: {
		ActionAppointmentRead,
		ActionAppointmentBook,
		ActionAppointmentConfirm,
		ActionAppointmentReschedule,
		ActionAppointmentCancel,
		ActionAppointmentComplete,
		ActionTariffRead,
		ActionCatalogRead,
	},
	RoleEmployee: {
		ActionAppointmentRead,
		ActionAppointmentComplete,
		ActionTariffRead,
		ActionCatalogRead,
		ActionPayrollReadOwn,
	},
}

type capability struct {
	role   Role
	action Action
}

var capabilities = buildCapabilities(RoleCapabilities)

func buildCapabilities(table map[Role][]Action) map[capability]struct{} {
	out := make(map[capability]struct{})
	for role, actions := range table {
		for _, action := range actions {
			out[capability{role: role, action: action}] = struct{}{}
		}
	}
	return out
}

// CanPerform reports whether role holds the capability for action.
func CanPerform(role Role, action Action) bool {
	_, ok := capabilities[capability{role: role, action: action}]
	return ok
}
