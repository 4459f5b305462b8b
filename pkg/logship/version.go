package logship

// Version is the client version reported in the user-agent.
const Version = "1.0.0"

// ClientName identifies this client to the collection endpoint.
const ClientName = "logship-go"

// UserAgent returns "<client>-version-<version>-logs".
func UserAgent() string {
	return ClientName + "-version-" + Version + "-logs"
}
