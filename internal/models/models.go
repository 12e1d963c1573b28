package models

// Message represents a WebSocket message
type Message struct {
	Type    string      `json:"type"`
	Content interface{} `json:"content"`
}

// ChangeEvent is the content of a "<kind>_changed" message.
type ChangeEvent struct {
	Action string `json:"action"`
	ID     uint   `json:"id"`
	UserID uint   `json:"userId"`
}

// All returns every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&FamilyMember{},
		&Pet{},
		&ElderlyPerson{},
		&Appointment{},
		&Payment{},
		&CareService{},
	}
}
