package handshake

import (
	"reflect"
	"testing"
)

func TestSessionInfo_Parse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     SessionInfo
	}{
		{
			name:     "empty response",
			response: "",
			want:     SessionInfo{},
		},
		{
			name:     "mixed fields with unknown line",
			response: "Homepage: a\nServer: x\nPSK: deadbeef\nSSHPort: 22\nUnknown: junk\n",
			want: SessionInfo{
				PSK:       "deadbeef",
				SSHPort:   "22",
				Homepages: []string{"a"},
				Servers:   []string{"x"},
			},
		},
		{
			name: "all fields",
			response: "Upgrade: 42\nPSK: cafe\nSSHPort: 2222\nSSHUsername: u\n" +
				"SSHPassword: p\nSSHHostkey: hk\nHomepage: h1\nHomepage: h2\nServer: s1\nServer: s2",
			want: SessionInfo{
				UpgradeVersion: "42",
				PSK:            "cafe",
				SSHPort:        "2222",
				SSHUsername:    "u",
				SSHPassword:    "p",
				SSHHostKey:     "hk",
				Homepages:      []string{"h1", "h2"},
				Servers:        []string{"s1", "s2"},
			},
		},
		{
			name:     "host key prefix is case exact",
			response: "SSHHostKey: nope\nSSHHostkey: yes\n",
			want:     SessionInfo{SSHHostKey: "yes"},
		},
		{
			name:     "prefix requires the space",
			response: "PSK:deadbeef\nServer:x\n",
			want:     SessionInfo{},
		},
		{
			name:     "repeated single-valued field keeps the last",
			response: "PSK: first\nPSK: second\n",
			want:     SessionInfo{PSK: "second"},
		},
		{
			name:     "blank lines skipped",
			response: "\n\nHomepage: a\n\n",
			want:     SessionInfo{Homepages: []string{"a"}},
		},
		{
			name:     "empty value accepted",
			response: "Upgrade: \n",
			want:     SessionInfo{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got SessionInfo
			got.Parse(tt.response)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.response, got, tt.want)
			}
		})
	}
}

func TestSessionInfo_ParseClearsPriorFields(t *testing.T) {
	var s SessionInfo
	s.Parse("PSK: old\nHomepage: old1\nHomepage: old2\nSSHUsername: u\n")
	s.Parse("Server: fresh\n")

	want := SessionInfo{Servers: []string{"fresh"}}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("second Parse = %+v, want %+v", s, want)
	}
}
