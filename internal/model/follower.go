package model

// Follower subscribes a partner to activity on a record.
type Follower struct {
	ID        int64  `json:"id"`
	ResModel  string `json:"res_model"`
	ResID     int64  `json:"res_id"`
	PartnerID int64  `json:"partner_id"`
}

// FollowerModelName is the entity name of follower subscriptions.
const FollowerModelName = "mail.followers"
