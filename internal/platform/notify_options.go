// Package platform delivers desktop notifications through the host's native
// notification service.
package platform

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// AppName identifies the sender. Empty selects DefaultAppName.
	AppName string
	// IconPath, when non-empty, points to an image file shown with the
	// notification where the platform supports it.
	IconPath string
	// TimeoutMillis is how long the notification stays visible. Zero selects
	// DefaultTimeoutMillis.
	TimeoutMillis int32
}

const (
	DefaultAppName       = "Retouch"
	DefaultTimeoutMillis = 5000
)

func (o Options) appName() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}

func (o Options) timeout() int32 {
	if o.TimeoutMillis <= 0 {
		return DefaultTimeoutMillis
	}
	return o.TimeoutMillis
}
