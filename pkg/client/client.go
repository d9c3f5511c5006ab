package client

// Client aggregates the external clients a service may hold. Mongo is set
// lazily so binaries that never touch the database (the notifier worker) can
// skip it.
type Client struct {
	Mongo *MongoClient
}

func New() *Client {
	return &Client{}
}

func (c *Client) GracefulShutdown() {
	if c.Mongo != nil {
		c.Mongo.Disconnect()
	}
}
