// Package docsync builds the documentation index: it fetches a fixed set of
// files from the official bkit repository, chunks them, embeds the chunks,
// and replaces the document store's contents.
package docsync

import "strings"

// FilesToIndex is the fixed list of repository paths that make up the
// official documentation. Paths not in this list are never indexed.
var FilesToIndex = []string{
	"README.md",
	"CHANGELOG.md",
	"bkit-system/SYSTEM_PROMPT.md",
	"bkit-system/bkit-rules/SKILL.md",
	"skills/development-pipeline/SKILL.md",
	"skills/pdca-methodology/SKILL.md",
	"skills/phase-1-schema/SKILL.md",
	"skills/phase-2-convention/SKILL.md",
	"skills/phase-3-mockup/SKILL.md",
	"skills/phase-4-api/SKILL.md",
	"skills/phase-5-design-system/SKILL.md",
	"skills/phase-6-ui-integration/SKILL.md",
	"skills/phase-7-seo-security/SKILL.md",
	"skills/phase-8-review/SKILL.md",
	"skills/phase-9-deployment/SKILL.md",
	"skills/zero-script-qa/SKILL.md",
	"skills/starter/SKILL.md",
	"skills/dynamic/SKILL.md",
	"skills/enterprise/SKILL.md",
	"agents/gap-detector.md",
	"agents/code-analyzer.md",
	"agents/pdca-iterator.md",
	"agents/qa-monitor.md",
}

// CategoryForPath assigns a category by path rule. Directory rules win over
// exact filename matches because they are checked first.
func CategoryForPath(path string) string {
	switch {
	case strings.Contains(path, "skills/"):
		return "skills"
	case strings.Contains(path, "agents/"):
		return "agents"
	case strings.Contains(path, "bkit-system/"):
		return "system"
	case path == "README.md":
		return "overview"
	case path == "CHANGELOG.md":
		return "changelog"
	default:
		return "general"
	}
}
