package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/shapeplan"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

// tracer traces with key 'opentype.shapeplan'
func tracer() tracing.Trace {
	return tracing.Select("opentype.shapeplan")
}

func main() {
	initDisplay()
	initTracing()

	commando.
		SetExecutableName("plan-tools").
		SetVersion("v0.0.1").
		SetDescription("CLI for inspecting shape plan resolution and caching.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	commando.
		Register("plan").
		SetDescription("Resolve a shape plan for a font and print the chosen backend, key and cacheability.").
		SetShortDescription("resolve a plan").
		AddArgument("font", "OpenType font file path", "").
		AddFlag("trace,T", "trace level [Debug|Info|Error]", commando.String, "Info").
		AddFlag("script,s", "script (ISO 15924, e.g. Latn, Arab, Hebr)", commando.String, "Latn").
		AddFlag("lang,l", "language tag (BCP 47, e.g. en, ar, he)", commando.String, "en").
		AddFlag("direction,d", "direction: ltr|rtl|ttb|btt", commando.String, "ltr").
		AddFlag("features,f", "feature list (e.g. liga=1,kern=0,+rlig,-calt)", commando.String, "-").
		AddFlag("shapers,S", "backend allow-list (comma separated)", commando.String, "-").
		AddFlag("text,t", "text to shape with the resolved plan", commando.String, "-").
		SetAction(runPlanCommand)

	commando.
		Register("repl").
		SetDescription("Interactively build plans against one font and inspect its plan cache.").
		SetShortDescription("plan cache REPL").
		AddArgument("font", "OpenType font file path", "").
		AddFlag("trace,T", "trace level [Debug|Info|Error]", commando.String, "Info").
		SetAction(runReplCommand)

	commando.Parse(nil)
}

func runPlanCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setTraceLevel(flags["trace"])
	face := mustLoadFace(args["font"].Value)

	props, err := parseProps(flags["script"], flags["lang"], flags["direction"])
	if err != nil {
		fatalf("%v", err)
	}
	features, err := parseFeatureFlag(flags["features"])
	if err != nil {
		fatalf("%v", err)
	}
	allowList := parseAllowList(flags["shapers"])

	before := face.CachedPlanCount()
	plan := shapeplan.NewCachedShapePlan(face, props, features, nil, allowList)
	defer plan.Release()
	cached := face.CachedPlanCount() > before

	printPlan(plan, props, features, cached)

	text, err := flags["text"].GetString()
	if err != nil {
		fatalf("invalid --text flag: %v", err)
	}
	if text = strings.TrimSpace(text); text != "" && text != "-" {
		shapeText(plan, face, props, text)
	}
}

func printPlan(plan *shapeplan.ShapePlan, props shapeplan.SegmentProperties,
	features []shapeplan.Feature, cached bool) {
	//
	if plan == shapeplan.EmptyShapePlan() {
		pterm.Error.Println("no backend applies, plan is inert")
		return
	}
	pterm.Info.Println("plan resolved")
	data := [][]string{
		{"Backend", plan.ShaperName()},
		{"Props", props.String()},
		{"Features", formatFeatures(features)},
		{"Cached", fmt.Sprintf("%t", cached)},
	}
	pterm.DefaultTable.WithData(data).Render()
}

func shapeText(plan *shapeplan.ShapePlan, face *shapeplan.Face,
	props shapeplan.SegmentProperties, text string) {
	//
	fnt := shapeplan.NewFont(face, 16)
	buf := shapeplan.NewBuffer()
	buf.SetProps(props)
	buf.AddString(text)
	if !plan.Execute(fnt, buf, nil) {
		pterm.Error.Println("shaping failed")
		return
	}
	pterm.Println(formatGlyphs(buf))
}

func formatGlyphs(buf *shapeplan.Buffer) string {
	sb := strings.Builder{}
	sb.WriteString("[")
	for i, item := range buf.Items() {
		if i > 0 {
			sb.WriteString("|")
		}
		adv := item.XAdvance
		if adv == 0 {
			adv = item.YAdvance
		}
		sb.WriteString(fmt.Sprintf("%d=%d+%d", item.Glyph, item.Cluster, adv))
	}
	sb.WriteString("]")
	return sb.String()
}

func formatFeatures(features []shapeplan.Feature) string {
	if len(features) == 0 {
		return "<defaults>"
	}
	parts := make([]string, len(features))
	for i, f := range features {
		parts[i] = f.String()
	}
	return strings.Join(parts, ",")
}

// --- Flag parsing -----------------------------------------------------

func parseProps(scriptFlag, langFlag, dirFlag commando.FlagValue) (shapeplan.SegmentProperties, error) {
	script, err := scriptFlag.GetString()
	if err != nil {
		return shapeplan.SegmentProperties{}, fmt.Errorf("invalid --script flag: %w", err)
	}
	lang, err := langFlag.GetString()
	if err != nil {
		return shapeplan.SegmentProperties{}, fmt.Errorf("invalid --lang flag: %w", err)
	}
	dirSpec, err := dirFlag.GetString()
	if err != nil {
		return shapeplan.SegmentProperties{}, fmt.Errorf("invalid --direction flag: %w", err)
	}
	dir, err := parseDirection(dirSpec)
	if err != nil {
		return shapeplan.SegmentProperties{}, err
	}
	return shapeplan.Props(strings.TrimSpace(script), strings.TrimSpace(lang), dir), nil
}

func parseDirection(spec string) (shapeplan.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(spec)) {
	case "", "ltr", "left-to-right":
		return shapeplan.DirectionLTR, nil
	case "rtl", "right-to-left":
		return shapeplan.DirectionRTL, nil
	case "ttb", "top-to-bottom":
		return shapeplan.DirectionTTB, nil
	case "btt", "bottom-to-top":
		return shapeplan.DirectionBTT, nil
	default:
		return shapeplan.DirectionInvalid, fmt.Errorf("unsupported direction %q (expected ltr|rtl|ttb|btt)", spec)
	}
}

func parseFeatureFlag(flag commando.FlagValue) ([]shapeplan.Feature, error) {
	spec, err := flag.GetString()
	if err != nil {
		return nil, fmt.Errorf("invalid --features flag: %w", err)
	}
	spec = strings.TrimSpace(spec)
	if spec == "-" || spec == "" {
		return nil, nil
	}
	return shapeplan.ParseFeatureList(spec)
}

func parseAllowList(flag commando.FlagValue) []string {
	spec, err := flag.GetString()
	if err != nil {
		fatalf("invalid --shapers flag: %v", err)
	}
	spec = strings.TrimSpace(spec)
	if spec == "-" || spec == "" {
		return nil
	}
	parts := strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' '
	})
	return parts
}

// --- Setup ------------------------------------------------------------

func mustLoadFace(path string) *shapeplan.Face {
	path = strings.TrimSpace(path)
	if path == "" {
		fatalf("font path is required")
	}
	face, err := shapeplan.LoadFace(path)
	if err != nil {
		fatalf("cannot load font %s: %v", path, err)
	}
	tracer().Infof("loaded font with %d tables", len(face.TableTags()))
	return face
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func initTracing() {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":          "go",
		"trace.opentype.shapeplan": "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Println("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
}

func setTraceLevel(flag commando.FlagValue) {
	level, err := flag.GetString()
	if err != nil {
		fatalf("invalid --trace flag: %v", err)
	}
	switch level {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info", "":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		fatalf("invalid trace level: %s", level)
	}
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "plan-tools: "+format+"\n", args...)
	os.Exit(1)
}
