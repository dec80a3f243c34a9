package a2a

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mark3labs/mcp-go/mcp"
)

// AgentCapabilities describes the capabilities of an agent.
type AgentCapabilities struct {
	Streaming          bool `json:"streaming,omitempty"`
	PushNotifications  bool `json:"pushNotifications,omitempty"`
	ExtendedAgentCard  bool `json:"extendedAgentCard,omitempty"`
}

// AgentProvider represents the organization behind an agent.
type AgentProvider struct {
	Organization string  `json:"organization"`
	URL          *string `json:"url,omitempty"`
}

// SecurityScheme describes how a caller authenticates to an agent; the
// validator implementation is out of scope, this is descriptive metadata
// surfaced on the card.
type SecurityScheme struct {
	Type   string `json:"type"`
	Scheme string `json:"scheme,omitempty"`
}

// AgentSkill is derived from one of the agent's tools.
type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	InputModes  []string `json:"inputModes,omitempty"`
	OutputModes []string `json:"outputModes,omitempty"`
}

// SkillFromTool derives an AgentSkill from an mcp.Tool, the boundary at
// which an agent's tool surface becomes protocol-visible capability
// metadata.
func SkillFromTool(tool *mcp.Tool) AgentSkill {
	skill := AgentSkill{
		ID:   tool.Name,
		Name: tool.Name,
	}
	if tool.Description != "" {
		desc := tool.Description
		skill.Description = &desc
	}
	return skill
}

// AgentCard is the protocol-visible descriptor exposed to clients.
// Signature, when present, is attached by the card-signing component and
// is excluded from its own canonical serialization.
type AgentCard struct {
	Name               string              `json:"name"`
	Description        *string             `json:"description,omitempty"`
	URL                string              `json:"url"`
	Version            string              `json:"version"`
	Provider           *AgentProvider      `json:"provider,omitempty"`
	Capabilities       AgentCapabilities   `json:"capabilities"`
	SecuritySchemes    []SecurityScheme    `json:"securitySchemes,omitempty"`
	DefaultInputModes  []string            `json:"defaultInputModes,omitempty"`
	DefaultOutputModes []string            `json:"defaultOutputModes,omitempty"`
	Skills             []AgentSkill        `json:"skills"`
	Signature          *string             `json:"signature,omitempty"`
}

func (card *AgentCard) String() string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	bullet := "│ "
	indent := "   "

	sb.WriteString(headerStyle.Render("Agent Card") + "\n")
	sb.WriteString(bullet + labelStyle.Render("Name: ") + valueStyle.Render(card.Name) + "\n")
	if card.Description != nil {
		sb.WriteString(bullet + labelStyle.Render("Description: ") + valueStyle.Render(*card.Description) + "\n")
	}
	sb.WriteString(bullet + labelStyle.Render("URL: ") + valueStyle.Render(card.URL) + "\n")
	sb.WriteString(bullet + labelStyle.Render("Version: ") + valueStyle.Render(card.Version) + "\n")

	if card.Provider != nil {
		sb.WriteString("\n" + sectionStyle.Render("Provider") + "\n")
		sb.WriteString(bullet + labelStyle.Render("Organization: ") + valueStyle.Render(card.Provider.Organization) + "\n")
	}

	sb.WriteString("\n" + sectionStyle.Render("Capabilities") + "\n")
	sb.WriteString(bullet + labelStyle.Render("Streaming: ") + valueStyle.Render(fmt.Sprintf("%v", card.Capabilities.Streaming)) + "\n")
	sb.WriteString(bullet + labelStyle.Render("Push Notifications: ") + valueStyle.Render(fmt.Sprintf("%v", card.Capabilities.PushNotifications)) + "\n")
	sb.WriteString(bullet + labelStyle.Render("Extended Card: ") + valueStyle.Render(fmt.Sprintf("%v", card.Capabilities.ExtendedAgentCard)) + "\n")

	if len(card.Skills) > 0 {
		sb.WriteString("\n" + sectionStyle.Render("Skills") + "\n")
		for i, skill := range card.Skills {
			sb.WriteString(bullet + labelStyle.Render(fmt.Sprintf("Skill %d", i+1)) + "\n")
			sb.WriteString(bullet + indent + labelStyle.Render("ID: ") + valueStyle.Render(skill.ID) + "\n")
			sb.WriteString(bullet + indent + labelStyle.Render("Name: ") + valueStyle.Render(skill.Name) + "\n")
		}
	}

	if card.Signature != nil {
		sb.WriteString("\n" + sectionStyle.Render("Signature") + "\n")
		sb.WriteString(bullet + labelStyle.Render("Value: ") + valueStyle.Render(*card.Signature) + "\n")
	}

	return sb.String()
}
