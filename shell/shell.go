package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/catsearch/board"
	"github.com/domino14/catsearch/config"
	"github.com/domino14/catsearch/cpchain"
	"github.com/domino14/catsearch/search"
)

var (
	errNoData   = errors.New("no data in this line")
	errNoReport = errors.New("no search has been run yet; use `search` first")
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

// shellcmd is one parsed input line.
type shellcmd struct {
	cmd  string
	args []string
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	return &shellcmd{cmd: fields[0], args: fields[1:]}, nil
}

func (c *shellcmd) intArg(i int, def int) (int, error) {
	if i >= len(c.args) {
		return def, nil
	}
	return strconv.Atoi(c.args[i])
}

// ShellController holds a working board and the most recent search.
type ShellController struct {
	l      *readline.Instance
	config *config.Config

	cur      board.Board
	chains   *cpchain.Cache
	params   *search.Params
	searcher *search.Searcher
	report   *search.Report
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func NewShellController(cfg *config.Config) *ShellController {
	sc := newController(cfg)
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mcatsearch>\033[0m ",
		HistoryFile:     "/tmp/catsearch_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	return sc
}

func newController(cfg *config.Config) *ShellController {
	return &ShellController{config: cfg, chains: cpchain.NewCache()}
}

func (sc *ShellController) handle(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "help", "h":
		return sc.help(cmd)
	case "rle", "r":
		return sc.rle(cmd)
	case "random":
		return sc.random(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "step", "n":
		return sc.step(cmd)
	case "move", "mv":
		return sc.move(cmd)
	case "sym":
		return sc.sym(cmd)
	case "pop":
		return msg(strconv.Itoa(sc.cur.Pop())), nil
	case "hash":
		return msg(fmt.Sprintf("%016x", sc.cur.Hash())), nil
	case "clear":
		sc.cur.Clear()
		return msg("cleared"), nil
	case "chain":
		return sc.chain(cmd)
	case "load":
		return sc.load(cmd)
	case "search":
		return sc.search(cmd)
	case "result":
		return sc.result(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		if line == "exit" || line == "bye" {
			sig <- syscall.SIGINT
			break
		}
		resp, err := sc.handle(line)
		if errors.Is(err, errNoData) {
			continue
		}
		if err != nil {
			sc.showError(err)
		} else if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
