package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"salon/internal/domain/auth"
	"salon/internal/platform/requestctx"
)

func TestRequireCapability(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	cases := []struct {
		name    string
		user    *auth.UserContext
		actions []auth.Action
		status  int
	}{
		{"anonymous", nil, []auth.Action{auth.ActionCatalogRead}, http.StatusUnauthorized},
		{"allowed", &auth.UserContext{UserID: "u", Role: auth.RoleAdmin}, []auth.Action{auth.ActionTariffWrite}, http.StatusNoContent},
		{"denied", &auth.UserContext{UserID: "u", Role: auth.RoleReceptionist}, []auth.Action{auth.ActionTariffWrite}, http.StatusForbidden},
		{"any of", &auth.UserContext{UserID: "u", Role: auth.RoleEmployee}, []auth.Action{auth.ActionPayrollRead, auth.ActionPayrollReadOwn}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.user != nil {
				req = req.WithContext(requestctx.WithUser(req.Context(), *tc.user))
			}
			rec := httptest.NewRecorder()
			RequireCapability(tc.actions...)(ok).ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
		})
	}
}
