package usecase

import "context"

// HealthStatus is the liveness payload
type HealthStatus struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthStatus
}

type healthUsecase struct{}

func NewHealthUsecase() HealthUsecase {
	return &healthUsecase{}
}

// Check is a pure liveness probe; it never touches the limiter or the relay.
func (u *healthUsecase) Check(ctx context.Context) HealthStatus {
	return HealthStatus{OK: true, Message: "all good"}
}
