package shell

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"lukechampine.com/frand"

	"github.com/domino14/catsearch/board"
	"github.com/domino14/catsearch/config"
	"github.com/domino14/catsearch/search"
)

//go:embed helptext/usage.txt
var usageText string

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	return msg(usageText), nil
}

func (sc *ShellController) rle(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.cur.ToRLE()), nil
	}
	dx, err := cmd.intArg(1, 0)
	if err != nil {
		return nil, err
	}
	dy, err := cmd.intArg(2, 0)
	if err != nil {
		return nil, err
	}
	b, err := board.ParseRLEAt(cmd.args[0], dx, dy)
	if err != nil {
		return nil, err
	}
	sc.cur = b
	return sc.show(cmd)
}

func (sc *ShellController) random(cmd *shellcmd) (*Response, error) {
	sc.cur.Clear()
	sc.cur.RandomFill(frand.New())
	return sc.show(cmd)
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	var sb strings.Builder
	sb.WriteString(sc.cur.ToDisplayText())
	fmt.Fprintf(&sb, "gen %d, pop %d\n", sc.cur.Gen(), sc.cur.Pop())
	return msg(sb.String()), nil
}

func (sc *ShellController) step(cmd *shellcmd) (*Response, error) {
	n, err := cmd.intArg(0, 1)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errors.New("step count must not be negative")
	}
	sc.cur.Evolve(n)
	return sc.show(cmd)
}

func (sc *ShellController) move(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 2 {
		return nil, errors.New("move <dx> <dy>")
	}
	dx, err := cmd.intArg(0, 0)
	if err != nil {
		return nil, err
	}
	dy, err := cmd.intArg(1, 0)
	if err != nil {
		return nil, err
	}
	sc.cur.Move(dx, dy)
	return sc.show(cmd)
}

func (sc *ShellController) sym(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("sym <symmetry>")
	}
	s, err := board.ParseSymmetry(cmd.args[0])
	if err != nil {
		return nil, err
	}
	sc.cur.ApplySymmetry(s)
	return sc.show(cmd)
}

func (sc *ShellController) chain(cmd *shellcmd) (*Response, error) {
	if sc.cur.IsEmpty() {
		return nil, errors.New("the board is empty")
	}
	maxLen := sc.config.GetInt(config.ConfigMaxCPChainLength)
	c := sc.chains.Chain(&sc.cur, maxLen)
	return msg(fmt.Sprintf("%d steps\n%s", len(c.Steps), c.String())), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("load <params.yaml>")
	}
	p, err := search.LoadParams(cmd.args[0])
	if err != nil {
		return nil, err
	}
	s, err := search.NewSearcher(p, sc.config)
	if err != nil {
		return nil, err
	}
	sc.params, sc.searcher, sc.report = p, s, nil
	return msg(fmt.Sprintf("loaded %d catalyst variants, about %.0f tuples to try",
		len(s.Variants()), s.SearchSpace())), nil
}

func (sc *ShellController) search(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 1 {
		if _, err := sc.load(cmd); err != nil {
			return nil, err
		}
	}
	if sc.searcher == nil {
		return nil, errors.New("please load search parameters first with the `load` command")
	}
	report, err := sc.searcher.Run(context.Background())
	if err != nil {
		return nil, err
	}
	sc.report = report
	return msg(report.Summary()), nil
}

// result puts the reaction and the catalysts of result n on the working
// board.
func (sc *ShellController) result(cmd *shellcmd) (*Response, error) {
	if sc.report == nil {
		return nil, errNoReport
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("result <n>")
	}
	n, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(sc.report.Results) {
		return nil, fmt.Errorf("result %d out of range 1-%d", n, len(sc.report.Results))
	}
	res := sc.report.Results[n-1]
	reaction, err := board.ParseRLEAt(sc.params.Reaction, sc.params.ReactionDX, sc.params.ReactionDY)
	if err != nil {
		return nil, err
	}
	sc.cur = reaction.Union(&res.Catalysts)
	sc.cur.SetGen(0)
	resp, _ := sc.show(cmd)
	return msg(fmt.Sprintf("%s\n%s\nrecovered by gen %d, activated at gen %d",
		resp.message, res.PlacementString(), res.Gen, res.Activation)), nil
}
