package domain

import "time"

// ListingSubmitted - объявление ушло на модерацию (статус pending).
type ListingSubmitted struct {
	DocumentID  string
	OwnerID     string
	Status      Status
	SubmittedAt time.Time
}
