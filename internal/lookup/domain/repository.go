package domain

import "context"

type Repository interface {
	ListUsers(ctx context.Context) ([]User, error)
	ListBreakCauses(ctx context.Context) ([]BreakCause, error)
	ListBreakpoints(ctx context.Context) ([]Breakpoint, error)
	// ListMachines returns the machine numbers assigned to stage.
	ListMachines(ctx context.Context, stage int32) ([]int32, error)
	// ListDevices returns the distinct device codes with live inspection
	// records on machines of stage.
	ListDevices(ctx context.Context, stage int32) ([]int32, error)
}
