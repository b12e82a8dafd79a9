package client

// Platform supplies the per-target constants that differ between the
// environments a front end runs in: where the API lives and how the client
// identifies itself. Front ends pick an implementation at wiring time.
type Platform interface {
	BaseURL() string
	UserAgent() string
}

// LocalPlatform targets a server on the developer's machine.
type LocalPlatform struct {
	Port string
}

func (p LocalPlatform) BaseURL() string {
	port := p.Port
	if port == "" {
		port = "8080"
	}
	return "http://127.0.0.1:" + port
}

func (p LocalPlatform) UserAgent() string { return "addressbook-local" }

// EmulatorPlatform targets the host machine from inside an emulated or
// containerized environment, where localhost is not the host. 10.0.2.2 is the
// conventional host alias.
type EmulatorPlatform struct {
	Port string
}

func (p EmulatorPlatform) BaseURL() string {
	port := p.Port
	if port == "" {
		port = "8080"
	}
	return "http://10.0.2.2:" + port
}

func (p EmulatorPlatform) UserAgent() string { return "addressbook-emulator" }

// StaticPlatform targets an explicit base URL, for deployed servers.
type StaticPlatform struct {
	URL   string
	Agent string
}

func (p StaticPlatform) BaseURL() string { return p.URL }

func (p StaticPlatform) UserAgent() string {
	if p.Agent == "" {
		return "addressbook"
	}
	return p.Agent
}
