package nowplaying

import (
	"github.com/godbus/dbus/v5"
)

// DBusClient is the subset of a bus connection the follower uses
//
//go:generate mockgen -destination=mocks/dbus_client_mock.go -package=mocks github.com/genricoloni/lyra/internal/nowplaying DBusClient
type DBusClient interface {
	Close() error
	AddMatchSignal(options ...dbus.MatchOption) error
	Signal(ch chan<- *dbus.Signal)

	// ListNames returns all names on the bus
	ListNames() ([]string, error)

	// GetNameOwner returns the unique name that owns a well-known name
	GetNameOwner(name string) (string, error)

	// GetProperty reads prop of the object at path owned by dest
	GetProperty(dest, path, prop string) (dbus.Variant, error)
}

// SessionClient is a DBusClient on the session bus
type SessionClient struct {
	conn *dbus.Conn
}

// DialSession connects to the session bus
func DialSession() (DBusClient, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, err
	}
	return &SessionClient{conn: conn}, nil
}

func (c *SessionClient) Close() error {
	return c.conn.Close()
}

func (c *SessionClient) AddMatchSignal(options ...dbus.MatchOption) error {
	return c.conn.AddMatchSignal(options...)
}

func (c *SessionClient) Signal(ch chan<- *dbus.Signal) {
	c.conn.Signal(ch)
}

func (c *SessionClient) ListNames() ([]string, error) {
	var names []string
	err := c.conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names)
	return names, err
}

func (c *SessionClient) GetNameOwner(name string) (string, error) {
	var owner string
	err := c.conn.BusObject().Call("org.freedesktop.DBus.GetNameOwner", 0, name).Store(&owner)
	return owner, err
}

func (c *SessionClient) GetProperty(dest, path, prop string) (dbus.Variant, error) {
	return c.conn.Object(dest, dbus.ObjectPath(path)).GetProperty(prop)
}
