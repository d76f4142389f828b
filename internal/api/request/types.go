package request

// RegisterRequest is the request body for registering a player
type RegisterRequest struct {
	DisplayName string `json:"display_name"`
}

// EquipSwordRequest is the request body for equipping a sword
type EquipSwordRequest struct {
	Sword string `json:"sword"`
}

// GiftRequest is the request body for gifting gold
type GiftRequest struct {
	TargetID int64 `json:"target_id"`
	Amount   int64 `json:"amount"`
}
