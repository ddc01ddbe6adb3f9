package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/glyphkit/hb"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'glyphkit.cli'
func tracer() tracing.Trace {
	return tracing.Select("glyphkit.cli")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":    "go",
		"trace.glyphkit.cli": "Info",
		"trace.glyphkit.hb":  "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load")
	index := flag.Int("index", 0, "Face index within a font collection")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError)        // will set the correct level later
	pterm.Info.Println("Welcome to the glyphkit CLI") // colored welcome message
	//
	// set up REPL
	repl, err := readline.New("hb > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{repl: repl}
	defer intp.release()
	//
	// load font to use
	if err := intp.loadFont(*fontname, *index); err != nil { // font name provided by flag
		tracer().Errorf(err.Error())
		intp.exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		intp.exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
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

// Intp is our interpreter object. It holds the loaded face and a subset
// request which commands configure step by step.
type Intp struct {
	face *hb.Owned[hb.Face]
	req  *hb.Owned[hb.SubsetRequest]
	repl *readline.Instance
}

func (intp *Intp) String() string {
	if intp == nil || !intp.face.Alive() {
		return "()"
	}
	r := intp.req.Get()
	return fmt.Sprintf("( face=%s unicodes=%s drop=%d )", intp.face, r.Unicodes(), r.DropTables().Len())
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Op is a single step of a command line.
type Op struct {
	code int
	arg  string
}

// Command is a command line: one or more steps, separated by ';'.
type Command struct {
	ops []Op
}

const (
	// op-codes QUIT and SHOW will not have arguments
	QUIT int = iota
	SHOW
	// op-codes below may have arguments
	HELP
	FONT
	ADD
	ADDCP
	REMOVE
	CLEAR
	INVERT
	DROP
	KEEPTABLES
	FEATURES
	ALLLAYOUT
	SUBSET
	SVG
	SHAPE
)

var opMap = map[string]int{
	"quit":        QUIT,
	"show":        SHOW,
	"help":        HELP,
	"font":        FONT,
	"add":         ADD,
	"addcp":       ADDCP,
	"remove":      REMOVE,
	"clear":       CLEAR,
	"invert":      INVERT,
	"drop":        DROP,
	"keep-tables": KEEPTABLES,
	"features":    FEATURES,
	"all-layout":  ALLLAYOUT,
	"subset":      SUBSET,
	"svg":         SVG,
	"shape":       SHAPE,
}

// parseCommand splits a line into steps of the form "op argument". Unknown
// ops turn into help requests.
func parseCommand(line string) (*Command, error) {
	cmd := &Command{}
	for _, step := range strings.Split(line, ";") {
		step = strings.TrimSpace(step)
		if step == "" {
			continue
		}
		name, arg, _ := strings.Cut(step, " ")
		code, ok := opMap[strings.ToLower(name)]
		if !ok {
			code, arg = HELP, name
		}
		if code <= SHOW {
			arg = ""
		}
		tracer().Debugf("parsed step: %s %q", name, arg)
		cmd.ops = append(cmd.ops, Op{code: code, arg: strings.TrimSpace(arg)})
	}
	return cmd, nil
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:       quitOp,
	SHOW:       showOp,
	HELP:       helpOp,
	FONT:       fontOp,
	ADD:        addOp,
	ADDCP:      addCodepointsOp,
	REMOVE:     removeOp,
	CLEAR:      clearOp,
	INVERT:     invertOp,
	DROP:       dropOp,
	KEEPTABLES: keepTablesOp,
	FEATURES:   featuresOp,
	ALLLAYOUT:  allLayoutOp,
	SUBSET:     subsetOp,
	SVG:        svgOp,
	SHAPE:      shapeOp,
}

func (intp *Intp) execute(cmd *Command) (err error, stop bool) {
	for _, op := range cmd.ops {
		f, ok := commandFn[op.code]
		if !ok {
			pterm.Error.Printf("unknown command code: %d\n", op.code)
			return nil, false
		}
		err, stop = f(intp, &op)
		if err != nil {
			pterm.Error.Println(err)
			return
		}
		if stop {
			return
		}
	}
	return
}

// --- Font Loading -----------------------------------------------------

func (intp *Intp) loadFont(fontname string, index int) error {
	if fontname == "" {
		fontname = "DejaVuSans.ttf"
	}
	face, err := hb.LoadFace(fontname, index)
	if err != nil {
		tracer().Errorf("cannot load font %s: %s", fontname, err)
		return err
	}
	req, err := hb.NewSubsetRequest()
	if err != nil {
		face.Close()
		return err
	}
	intp.release()
	intp.face, intp.req = face, req
	tracer().Infof("loaded font %s: %d glyphs", fontname, face.Get().GlyphCount())
	pterm.Printf("font tables: %v\n", face.Get().TableTags())
	return nil
}

func (intp *Intp) release() {
	intp.req.Close()
	intp.face.Close()
}

// osExit is replaced in tests.
var osExit = os.Exit

// exit releases the interpreter's resources and terminates the program.
func (intp *Intp) exit(code int) {
	intp.release()
	if intp.repl != nil {
		intp.repl.Close()
	}
	osExit(code)
}
