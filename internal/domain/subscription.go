package domain

// Subscription links a subscriber to a channel (both users).
type Subscription struct {
	ID           string `json:"id"`
	SubscriberID string `json:"subscriberId"`
	ChannelID    string `json:"channelId"`
	CreatedAt    int64  `json:"createdAt"`
}

// Validate checks the subscription fields.
func (s *Subscription) Validate() error {
	if err := requireRef("subscriberId", s.SubscriberID); err != nil {
		return err
	}
	if err := requireRef("channelId", s.ChannelID); err != nil {
		return err
	}
	if s.SubscriberID == s.ChannelID {
		return NewValidationError("channelId", "you cannot subscribe to your own channel")
	}
	return nil
}
