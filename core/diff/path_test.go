package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{
			name:  "dotted form",
			input: "metadata.updated_at",
			want:  []string{"metadata", "updated_at"},
		},
		{
			name:  "single component",
			input: "timestamp",
			want:  []string{"timestamp"},
		},
		{
			name:  "bracket form single quotes",
			input: "root['metadata']['updated_at']",
			want:  []string{"metadata", "updated_at"},
		},
		{
			name:  "bracket form double quotes",
			input: `root["timestamp"]`,
			want:  []string{"timestamp"},
		},
		{
			name:  "bracket form with list index",
			input: "root['tags'][0]",
			want:  []string{"tags", "0"},
		},
		{
			name:  "dotted form with list index",
			input: "tags.0",
			want:  []string{"tags", "0"},
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "unterminated bracket",
			input:   "root['metadata'",
			wantErr: true,
		},
		{
			name:    "mismatched quotes",
			input:   `root['metadata"]`,
			wantErr: true,
		},
		{
			name:    "bracket without root prefix",
			input:   "['metadata']",
			wantErr: true,
		},
		{
			name:    "empty dotted component",
			input:   "metadata..updated_at",
			wantErr: true,
		},
		{
			name:    "empty bracket component",
			input:   "root['']",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseExcludes(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		set, err := ParseExcludes(nil)
		require.NoError(t, err)
		assert.Nil(t, set)
	})

	t.Run("Mixed", func(t *testing.T) {
		set, err := ParseExcludes([]string{"a.b", "root['c']"})
		require.NoError(t, err)
		assert.Len(t, set, 2)
	})

	t.Run("InvalidEntry", func(t *testing.T) {
		_, err := ParseExcludes([]string{"a.b", "root['c'"})
		assert.Error(t, err)
	})
}

func TestExcludesMatch(t *testing.T) {
	set, err := ParseExcludes([]string{"metadata.updated_at", "root['internal']"})
	require.NoError(t, err)

	tests := []struct {
		name string
		path []string
		want bool
	}{
		{"exact match", []string{"metadata", "updated_at"}, true},
		{"child of excluded path", []string{"metadata", "updated_at", "tz"}, true},
		{"prefix match from bracket form", []string{"internal", "revision"}, true},
		{"sibling not matched", []string{"metadata", "created_at"}, false},
		{"parent not matched", []string{"metadata"}, false},
		{"unrelated", []string{"name"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, set.Match(tt.path))
		})
	}
}
