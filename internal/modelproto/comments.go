package modelproto

import (
	"strings"

	"github.com/jhump/protoreflect/v2/protobuilder"
)

// comment turns text into a leading comment, one " "-prefixed line per
// source line.
func comment(text string) protobuilder.Comments {
	text = strings.TrimSpace(text)
	if text == "" {
		return protobuilder.Comments{}
	}
	var sb strings.Builder
	for _, line := range strings.Split(text, "\n") {
		sb.WriteString(" ")
		sb.WriteString(strings.TrimRight(line, " \t"))
		sb.WriteString("\n")
	}
	return protobuilder.Comments{LeadingComment: sb.String()}
}
