package hostmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCollectors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "ports whitespace and trailing comma",
			raw:  "cm-1.ospool.osg-htc.org:9618, cm-2.ospool.osg-htc.org:9618 ,",
			want: []string{"cm-1.ospool.osg-htc.org", "cm-2.ospool.osg-htc.org"},
		},
		{
			name: "single host without port",
			raw:  "scicollector.jlab.org",
			want: []string{"scicollector.jlab.org"},
		},
		{
			name: "duplicates collapse",
			raw:  "cm-1:9618,cm-1:9619,cm-1",
			want: []string{"cm-1"},
		},
		{
			name: "sinful string style port suffix",
			raw:  " flock.opensciencegrid.org:9618?sock=collector ",
			want: []string{"flock.opensciencegrid.org"},
		},
		{
			name: "empty",
			raw:  "",
			want: []string{},
		},
		{
			name: "only separators",
			raw:  " , ,: ,",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCollectors(tt.raw).Sorted())
		})
	}
}

func TestMachineName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ap1.example.org", "ap1.example.org"},
		{"jupyter-notebook-1@ap.example.org", "ap.example.org"},
		{"a@b@c.example.org", "c.example.org"},
		{"trailing@", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MachineName(tt.in), tt.in)
	}
}
