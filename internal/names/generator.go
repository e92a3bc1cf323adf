// Package names generates default node names in "adjective-noun" form, such as
// "steady-ledger" or "amber-relay".
//
// A node name is also the node's peer identifier on the gossip network, so every
// generated name satisfies validate.NodeNameFormat.
package names

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var adjectives = []string{
	"amber", "ancient", "bold", "brisk", "calm",
	"candid", "clever", "crisp", "daring", "deft",
	"eager", "early", "even", "faithful", "fearless",
	"fleet", "frank", "gentle", "golden", "hardy",
	"honest", "humble", "keen", "kind", "lively",
	"loyal", "lucid", "mellow", "merry", "modest",
	"nimble", "noble", "patient", "plucky", "polite",
	"prompt", "proud", "quick", "quiet", "rapid",
	"ready", "robust", "sharp", "silent", "sincere",
	"solid", "spry", "stable", "steady", "stoic",
	"sturdy", "swift", "tidy", "tireless", "true",
	"trusty", "vivid", "wary", "watchful", "zealous",
}

var nouns = []string{
	"abacus", "anchor", "archive", "atlas", "beacon",
	"block", "bridge", "cairn", "canal", "cipher",
	"clerk", "compass", "courier", "crane", "dispatch",
	"docket", "drover", "ferry", "gate", "harbor",
	"herald", "journal", "keel", "keeper", "lantern",
	"ledger", "lighthouse", "manifest", "marker", "meridian",
	"mint", "notary", "outpost", "packet", "pier",
	"pilot", "quarry", "queue", "quill", "railway",
	"receipt", "registry", "relay", "rollup", "scribe",
	"sentinel", "signal", "stamp", "steward", "switch",
	"tally", "teller", "ticket", "tower", "tracker",
	"vault", "wagon", "warden", "wharf", "witness",
}

// Generate returns a random "adjective-noun" name.
func Generate() string {
	adjective := adjectives[randomIndex(len(adjectives))]
	noun := nouns[randomIndex(len(nouns))]
	return fmt.Sprintf("%s-%s", adjective, noun)
}

// randomIndex returns a uniform index in [0, max) from crypto/rand, or 0 if the
// random source fails.
func randomIndex(max int) int {
	if max <= 0 {
		return 0
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}

	return int(n.Int64())
}
