package validate

import (
	"fmt"
	"regexp"
	"strings"
)

var nodeNameRegex = regexp.MustCompile(`^[a-z0-9_-]+$`)

// NodeNameFormat checks a node name, which doubles as the node's peer identifier
// on the gossip network. Names use lowercase letters, digits, hyphens and
// underscores, and must start and end with a letter or digit.
func NodeNameFormat(name string) error {
	if name == "" {
		return fmt.Errorf("node name cannot be empty")
	}

	if !nodeNameRegex.MatchString(name) {
		return fmt.Errorf("node name '%s' must contain only lowercase letters [a-z], numbers [0-9], hyphens (-), and underscores (_)", name)
	}

	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, "_") ||
		strings.HasSuffix(name, "-") || strings.HasSuffix(name, "_") {
		return fmt.Errorf("node name '%s' cannot start or end with hyphen (-) or underscore (_)", name)
	}

	return nil
}
