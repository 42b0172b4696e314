package catalog

import "context"

type Store interface {
	InsertService(ctx context.Context, svc Service) error
	UpdateService(ctx context.Context, svc Service) error
	GetService(ctx context.Context, id string) (Service, error)
	ListServices(ctx context.Context) ([]Service, error)
	InsertEmployee(ctx context.Context, emp Employee) error
	UpdateEmployee(ctx context.Context, emp Employee) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	InsertClient(ctx context.Context, client Client) error
	GetClient(ctx context.Context, id string) (Client, error)
	ListClients(ctx context.Context) ([]Client, error)
}
