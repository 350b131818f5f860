package model

// Room (salle) is a place a talk can be scheduled into.
type Room struct {
	ID       int64  `json:"id_salle"`
	Name     string `json:"nom_salle"`
	Capacity int    `json:"capacite"`
}

// RoomInput is the body of POST /salles.
type RoomInput struct {
	Name     string `json:"nom_salle"`
	Capacity int    `json:"capacite"`
}
