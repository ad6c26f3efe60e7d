package trigger_sweep

import "github.com/m04kA/SMC-RoomBookingService/internal/usecase/sweep"

// SweepResponse HTTP response model
type SweepResponse struct {
	RunID        string `json:"runId"`
	Scanned      int    `json:"scanned"`
	Transitioned int    `json:"transitioned"`
	Failed       int    `json:"failed"`
}

func FromUseCaseResponse(resp *sweep.Response) *SweepResponse {
	return &SweepResponse{
		RunID:        resp.RunID,
		Scanned:      resp.Scanned,
		Transitioned: resp.Transitioned,
		Failed:       resp.Failed,
	}
}
