package server

// Server aggregates the entity-specific HTTP servers behind one route table.
type Server struct {
	OfferServer
	DealServer
	NegotiationServer
	NotificationServer
	LandownerServer
}

func NewServer(
	offerServer OfferServer,
	dealServer DealServer,
	negotiationServer NegotiationServer,
	notificationServer NotificationServer,
	landownerServer LandownerServer,
) Server {
	return Server{
		OfferServer:        offerServer,
		DealServer:         dealServer,
		NegotiationServer:  negotiationServer,
		NotificationServer: notificationServer,
		LandownerServer:    landownerServer,
	}
}
