package lunch

type EventPayload struct {
	Date             string `json:"date,omitempty"`
	Deadline         string `json:"deadline,omitempty"`
	UserID           uint   `json:"user_id,omitempty"`
	RecommendationID int    `json:"recommendation_id,omitempty"`
	RestaurantName   string `json:"restaurant_name,omitempty"`
	Category         string `json:"category,omitempty"`
	Reason           string `json:"reason,omitempty"`
	Timezone         string `json:"timezone,omitempty"`
	DeadlineHour     int    `json:"deadline_hour,omitempty"`
}
