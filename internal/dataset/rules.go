package dataset

// Mode describes how a sample's input files become one stereo output.
type Mode int

const (
	// ModePair merges two mono tracks into the left and right channels.
	ModePair Mode = iota
	// ModePassthrough copies one pre-merged stereo file verbatim.
	ModePassthrough
)

func (m Mode) String() string {
	switch m {
	case ModePair:
		return "pair"
	case ModePassthrough:
		return "passthrough"
	}
	return "unknown"
}

// Identity describes how sample directories are named within a dataset.
type Identity int

const (
	// IdentityUUID matches canonical UUID directory names; processing
	// order follows filesystem enumeration.
	IdentityUUID Identity = iota
	// IdentityNumeric matches purely numeric directory names; processing
	// order is ascending numeric.
	IdentityNumeric
)

func (i Identity) String() string {
	switch i {
	case IdentityUUID:
		return "uuid"
	case IdentityNumeric:
		return "numeric"
	}
	return "unknown"
}

// Model describes one speech-generation system's source conventions.
type Model struct {
	// Name is the canonical model name used in the target tree.
	Name string
	// SourceDir is the subdirectory name the model's own tooling writes.
	SourceDir string
}

var models = []Model{
	{Name: "dgslm", SourceDir: "dgslm"},
	{Name: "moshi", SourceDir: "moshi"},
	{Name: "freezeomni", SourceDir: "freeze_omni"},
}

// Models returns the generating systems in canonical processing order.
func Models() []Model {
	return append([]Model(nil), models...)
}

// Rule gives the expected input filename(s) for one (category, model).
type Rule struct {
	Mode Mode
	// Left is the left-channel track for ModePair, or the pre-merged
	// stereo file for ModePassthrough.
	Left string
	// Right is the right-channel track; ModePair only.
	Right string
}

// Inputs returns the filenames the rule requires, in channel order.
func (r Rule) Inputs() []string {
	if r.Mode == ModePassthrough {
		return []string{r.Left}
	}
	return []string{r.Left, r.Right}
}

// The conversational-input track is named uniformly across models; each
// model names its generated track differently.
var pairRules = map[string]Rule{
	"dgslm":      {Mode: ModePair, Left: "input.wav", Right: "dgslm_output_mono.wav"},
	"moshi":      {Mode: ModePair, Left: "input.wav", Right: "moshi_output_mono.wav"},
	"freezeomni": {Mode: ModePair, Left: "input.wav", Right: "output.wav"},
}

// Turn-taking samples arrive as a single pre-merged stereo recording.
var passthroughRules = map[string]Rule{
	"dgslm":      {Mode: ModePassthrough, Left: "dgslm_output_stereo.wav"},
	"moshi":      {Mode: ModePassthrough, Left: "moshi_output_stereo.wav"},
	"freezeomni": {Mode: ModePassthrough, Left: "output_stereo.wav"},
}

// RuleFor returns the input rule for a category and model.
func RuleFor(category, model string) (Rule, bool) {
	var table map[string]Rule
	switch category {
	case CategoryPause, CategoryBackchannel, CategoryInterruption:
		table = pairRules
	case CategoryTurnTaking:
		table = passthroughRules
	default:
		return Rule{}, false
	}
	rule, ok := table[model]
	return rule, ok
}

// IdentityFor returns the directory-naming convention for a dataset.
func IdentityFor(dataset string) Identity {
	if dataset == DatasetSynthetic {
		return IdentityNumeric
	}
	return IdentityUUID
}
