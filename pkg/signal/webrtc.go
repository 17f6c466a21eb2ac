package signal

// ICEServer describes one STUN/TURN server handed to browsers.
type ICEServer struct {
	URLs       []string `json:"urls" mapstructure:"urls" yaml:"urls"`
	Username   string   `json:"username,omitempty" mapstructure:"username" yaml:"username,omitempty"`
	Credential string   `json:"credential,omitempty" mapstructure:"credential" yaml:"credential,omitempty"`
}

// WebRTCConfig is served verbatim to clients at /webrtc/config.
// With no ICE servers configured, peers fall back to host candidates
// and the relayed block path.
type WebRTCConfig struct {
	ICEServers []ICEServer `json:"iceServers" mapstructure:"ice_servers" yaml:"ice_servers"`
}
