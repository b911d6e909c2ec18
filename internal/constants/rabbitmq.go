package constants

const (
	ListingsExchange = "listings_exchange"

	RoutingKeyListingSubmitted = "moderation.listing.submitted"
)
