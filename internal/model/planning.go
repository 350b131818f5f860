package model

// Planning is a scheduled occurrence of a talk. Talk and room fields are
// denormalised by the API for display.
type Planning struct {
	ID              int64  `json:"id_planning"`
	Date            string `json:"date"`
	Time            string `json:"heure"`
	RoomID          int64  `json:"salle_id,omitempty"`
	TalkID          int64  `json:"talk_id"`
	TalkTitle       string `json:"talk_titre"`
	TalkDescription string `json:"talk_description"`
	TalkStatus      Status `json:"talk_statut"`
	RoomName        string `json:"salle_nom"`
}

// PlanningInput is the body of PUT /plannings/{id}.
type PlanningInput struct {
	RoomID int64  `json:"salle_id"`
	Date   string `json:"date"`
	Time   string `json:"heure"`
}
