package version

const (
	AppName    = "Deskmate"
	AppVersion = "0.3.0"
)
