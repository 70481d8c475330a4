package models

import (
	"testing"
)

// TestGetIDsPhrases tests the GetIDs method for Phrases
func TestGetIDsPhrases(t *testing.T) {
	tests := []struct {
		name     string
		list     Phrases
		expected []int64
	}{
		{
			name:     "Empty list",
			list:     Phrases{},
			expected: []int64{},
		},
		{
			name: "Single item",
			list: Phrases{
				{PhraseID: 1},
			},
			expected: []int64{1},
		},
		{
			name: "Multiple items",
			list: Phrases{
				{PhraseID: 1},
				{PhraseID: 7},
				{PhraseID: 42},
			},
			expected: []int64{1, 7, 42},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.list.GetIDs()
			if len(result) != len(tt.expected) {
				t.Errorf("GetIDs() returned %d items, want %d", len(result), len(tt.expected))
			}
			for i, id := range result {
				if id != tt.expected[i] {
					t.Errorf("GetIDs()[%d] = %v, want %v", i, id, tt.expected[i])
				}
			}
		})
	}
}
