package a2a

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
)

func TestSkillFromToolCarriesNameAndDescription(t *testing.T) {
	tool := &mcp.Tool{Name: "search", Description: "searches the web"}
	skill := SkillFromTool(tool)

	assert.Equal(t, "search", skill.ID)
	assert.Equal(t, "search", skill.Name)
	require := assert.New(t)
	require.NotNil(skill.Description)
	require.Equal("searches the web", *skill.Description)
}

func TestSkillFromToolOmitsDescriptionWhenBlank(t *testing.T) {
	skill := SkillFromTool(&mcp.Tool{Name: "noop"})
	assert.Nil(t, skill.Description)
}
