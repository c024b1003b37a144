package handshake

import "strings"

// Wire prefixes of the handshake response. Matching is case-exact; note the
// lowercase k in "SSHHostkey: ", which the protocol fixed long ago and every
// peer now depends on.
const (
	upgradePrefix     = "Upgrade: "
	pskPrefix         = "PSK: "
	sshPortPrefix     = "SSHPort: "
	sshUsernamePrefix = "SSHUsername: "
	sshPasswordPrefix = "SSHPassword: "
	sshHostKeyPrefix  = "SSHHostkey: "
	homepagePrefix    = "Homepage: "
	serverPrefix      = "Server: "
)

// SessionInfo holds the fields extracted from a handshake response.
type SessionInfo struct {
	UpgradeVersion string
	PSK            string
	SSHPort        string
	SSHUsername    string
	SSHPassword    string
	SSHHostKey     string
	Homepages      []string
	Servers        []string
}

// Parse extracts session fields from a handshake response. All fields are
// cleared first, so a SessionInfo can be reused across handshakes.
//
// Expected response lines:
//
//	Upgrade: <version>      (zero or one)
//	PSK: <hexstring>        (zero or one)
//	SSHPort: <string>       (zero or one)
//	SSHUsername: <string>   (zero or one)
//	SSHPassword: <string>   (zero or one)
//	SSHHostkey: <string>    (zero or one)
//	Homepage: <url>         (zero or more)
//	Server: <hexstring>     (zero or more)
func (s *SessionInfo) Parse(response string) {
	*s = SessionInfo{}

	for _, line := range strings.Split(response, "\n") {
		switch {
		case strings.HasPrefix(line, upgradePrefix):
			s.UpgradeVersion = line[len(upgradePrefix):]
		case strings.HasPrefix(line, pskPrefix):
			s.PSK = line[len(pskPrefix):]
		case strings.HasPrefix(line, sshPortPrefix):
			s.SSHPort = line[len(sshPortPrefix):]
		case strings.HasPrefix(line, sshUsernamePrefix):
			s.SSHUsername = line[len(sshUsernamePrefix):]
		case strings.HasPrefix(line, sshPasswordPrefix):
			s.SSHPassword = line[len(sshPasswordPrefix):]
		case strings.HasPrefix(line, sshHostKeyPrefix):
			s.SSHHostKey = line[len(sshHostKeyPrefix):]
		case strings.HasPrefix(line, homepagePrefix):
			s.Homepages = append(s.Homepages, line[len(homepagePrefix):])
		case strings.HasPrefix(line, serverPrefix):
			s.Servers = append(s.Servers, line[len(serverPrefix):])
		}
	}
}
