package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/shapeplan"
	"github.com/pterm/pterm"
	"github.com/thatisuday/commando"
)

func runReplCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	setTraceLevel(flags["trace"])
	face := mustLoadFace(args["font"].Value)
	defer face.Close()

	pterm.Info.Println("Welcome to the shape plan REPL")
	repl, err := readline.New("plan > ")
	if err != nil {
		fatalf("%v", err)
	}
	intp := &Intp{repl: repl, face: face}
	pterm.Info.Println("Quit with <ctrl>D")
	intp.REPL()
	intp.releaseAll()
}

// Intp is our interpreter object. It holds the face under inspection and
// the plans built during the session.
type Intp struct {
	face  *shapeplan.Face
	repl  *readline.Instance
	plans []*shapeplan.ShapePlan
	props shapeplan.SegmentProperties
}

func (intp *Intp) String() string {
	return fmt.Sprintf("( props=%s plans=%d cached=%d )",
		intp.props, len(intp.plans), intp.face.CachedPlanCount())
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	intp.props = shapeplan.Props("Latn", "en", shapeplan.DirectionLTR)
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		err, quit := intp.execute(line)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

const (
	QUIT int = iota
	HELP
	PROPS
	PLAN
	SHAPE
	CACHE
	RELEASE
)

var opMap = map[string]int{
	"quit":    QUIT,
	"help":    HELP,
	"props":   PROPS,
	"plan":    PLAN,
	"shape":   SHAPE,
	"cache":   CACHE,
	"release": RELEASE,
}

var commandFn = map[int]func(*Intp, string) (error, bool){
	QUIT:    quitOp,
	HELP:    helpOp,
	PROPS:   propsOp,
	PLAN:    planOp,
	SHAPE:   shapeOp,
	CACHE:   cacheOp,
	RELEASE: releaseOp,
}

func (intp *Intp) execute(line string) (error, bool) {
	cmd, arg, _ := strings.Cut(line, " ")
	code, ok := opMap[strings.ToLower(cmd)]
	if !ok {
		code = HELP
	}
	tracer().Debugf("command: %s %q", cmd, arg)
	return commandFn[code](intp, strings.TrimSpace(arg))
}

func quitOp(intp *Intp, arg string) (error, bool) {
	return nil, true
}

func helpOp(intp *Intp, arg string) (error, bool) {
	pterm.Println(`commands:
  props <script> <lang> <dir>   set segment properties
  plan [features]               build a cached plan, e.g. plan +smcp,-liga
  shape <text>                  shape text with the last plan
  cache                         list the face's cached plans
  release                       release all plans built in this session
  quit                          leave the REPL`)
	return nil, false
}

func propsOp(intp *Intp, arg string) (error, bool) {
	fields := strings.Fields(arg)
	if len(fields) != 3 {
		return errors.New("usage: props <script> <lang> <dir>"), false
	}
	dir, err := parseDirection(fields[2])
	if err != nil {
		return err, false
	}
	intp.props = shapeplan.Props(fields[0], fields[1], dir)
	return nil, false
}

func planOp(intp *Intp, arg string) (error, bool) {
	var features []shapeplan.Feature
	if arg != "" {
		var err error
		if features, err = shapeplan.ParseFeatureList(arg); err != nil {
			return err, false
		}
	}
	before := intp.face.CachedPlanCount()
	plan := shapeplan.NewCachedShapePlan(intp.face, intp.props, features, nil, nil)
	intp.plans = append(intp.plans, plan)
	printPlan(plan, intp.props, features, intp.face.CachedPlanCount() > before)
	return nil, false
}

func shapeOp(intp *Intp, arg string) (error, bool) {
	if len(intp.plans) == 0 {
		return errors.New("no plan built yet"), false
	}
	if arg == "" {
		return errors.New("usage: shape <text>"), false
	}
	plan := intp.plans[len(intp.plans)-1]
	shapeText(plan, intp.face, plan.Props(), arg)
	return nil, false
}

func cacheOp(intp *Intp, arg string) (error, bool) {
	pterm.Printf("cached plans: %d\n", intp.face.CachedPlanCount())
	return nil, false
}

func releaseOp(intp *Intp, arg string) (error, bool) {
	intp.releaseAll()
	return nil, false
}

func (intp *Intp) releaseAll() {
	for _, plan := range intp.plans {
		plan.Release()
	}
	intp.plans = intp.plans[:0]
}
