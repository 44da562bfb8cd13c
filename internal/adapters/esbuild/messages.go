package esbuild

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

type messagesError struct {
	messages []api.Message
}

func (e *messagesError) Error() string {
	if len(e.messages) == 1 {
		return e.messages[0].Text
	}
	return fmt.Sprintf("%s (and %d more)", e.messages[0].Text, len(e.messages)-1)
}

// formatMessages renders esbuild messages as single-line details of the
// form "file:line:column: text".
func formatMessages(msgs []api.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		var sb strings.Builder
		if m.Location != nil && m.Location.File != "" {
			fmt.Fprintf(&sb, "%s:%d:%d: ", m.Location.File, m.Location.Line, m.Location.Column)
		}
		if m.PluginName != "" {
			fmt.Fprintf(&sb, "[%s] ", m.PluginName)
		}
		sb.WriteString(m.Text)
		out = append(out, sb.String())
	}
	return out
}

// prettyMessages renders messages the way the esbuild CLI prints them.
func prettyMessages(msgs []api.Message, kind api.MessageKind) string {
	return strings.Join(api.FormatMessages(msgs, api.FormatMessagesOptions{Kind: kind}), "")
}
