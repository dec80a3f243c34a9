package runner

// toolSpec is the provider-agnostic shape each adapter's convertTools
// reshapes into its own SDK's tool-declaration type.
type toolSpec struct {
	Name        string
	Description string
	Properties  map[string]any
	Required    []string
}

// agentTools extracts toolSpecs from agent.Tools, tolerating a nil agent.
func agentTools(agent *Agent) []*toolSpec {
	if agent == nil {
		return nil
	}
	out := make([]*toolSpec, 0, len(agent.Tools))
	for _, tool := range agent.Tools {
		if tool == nil {
			continue
		}
		out = append(out, &toolSpec{
			Name:        tool.Name,
			Description: tool.Description,
			Properties:  tool.InputSchema.Properties,
			Required:    tool.InputSchema.Required,
		})
	}
	return out
}
