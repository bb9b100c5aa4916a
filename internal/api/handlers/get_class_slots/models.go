package get_class_slots

import (
	"github.com/m04kA/FitClub-BookingService/internal/domain"
	getClassSlots "github.com/m04kA/FitClub-BookingService/internal/usecase/get_class_slots"
)

// OccurrenceResponse вхождение слота занятия
type OccurrenceResponse struct {
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	AvailableSpots  *int   `json:"availableSpots,omitempty"`
	TotalSpots      *int   `json:"totalSpots,omitempty"`
}

// ClassSlotsResponse HTTP response model
type ClassSlotsResponse struct {
	ClassID     string               `json:"classId"`
	ClassName   string               `json:"className"`
	Occurrences []OccurrenceResponse `json:"occurrences"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getClassSlots.Response) *ClassSlotsResponse {
	occurrences := make([]OccurrenceResponse, len(resp.Occurrences))
	for i, occ := range resp.Occurrences {
		occurrences[i] = OccurrenceResponse{
			Date:            occ.Date.Format(domain.DateFormat),
			StartTime:       occ.StartTime.String(),
			EndTime:         occ.EndTime.String(),
			DurationMinutes: occ.DurationMinutes,
			AvailableSpots:  occ.AvailableSpots,
			TotalSpots:      occ.TotalSpots,
		}
	}

	return &ClassSlotsResponse{
		ClassID:     resp.ClassID,
		ClassName:   resp.ClassName,
		Occurrences: occurrences,
	}
}
