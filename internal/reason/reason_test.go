package reason

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSON_Fenced(t *testing.T) {
	in := "```json\n{\"a\": 1}\n```"
	assert.Equal(t, `{"a": 1}`, CleanJSON(in))
}

func TestCleanJSON_BareFence(t *testing.T) {
	in := "```\n[1, 2]\n```"
	assert.Equal(t, `[1, 2]`, CleanJSON(in))
}

func TestCleanJSON_ProseAroundObject(t *testing.T) {
	in := "Her er resultatet:\n{\"questions\": []}\nHåper det hjelper."
	assert.Equal(t, `{"questions": []}`, CleanJSON(in))
}

func TestCleanJSON_ArrayBeforeObject(t *testing.T) {
	in := `[{"issue": "mangel"}]`
	assert.Equal(t, in, CleanJSON(in))
}

func TestDecodeOrDefault_Malformed(t *testing.T) {
	type shape struct {
		Questions []string `json:"questions"`
	}
	got := DecodeOrDefault("ikke json", shape{Questions: []string{}})
	assert.Empty(t, got.Questions)
}

func TestDecodeOrDefault_Valid(t *testing.T) {
	type shape struct {
		Questions []string `json:"questions"`
	}
	got := DecodeOrDefault(`{"questions": ["Når kjøpte du varen?"]}`, shape{})
	assert.Equal(t, []string{"Når kjøpte du varen?"}, got.Questions)
}
