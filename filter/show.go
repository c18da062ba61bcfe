package filter

import (
	"fmt"
	"slices"

	"github.com/beevik/etree"

	"lbm/command"
	"lbm/rows"
	"lbm/svgtree"
)

// ShowCommand is the name of the conditional visibility command.
const ShowCommand = "showeq"

// Show hides group content unless the checked value is in the allowed list:
//
//	#showeq <checked> <allowed> [<allowed>...]
//
// Command is a separate text element directly inside the group and is
// always removed.
type Show struct{}

func (f *Show) Apply(el *etree.Element, _ rows.Row) error {
	if !svgtree.Is(el, "g") {
		return nil
	}

	var (
		cmdEl   *etree.Element
		cmdText string
	)
	for _, child := range el.ChildElements() {
		if !svgtree.Is(child, "text") {
			continue
		}
		text, err := svgtree.ExtractText(child)
		if err != nil {
			return err
		}
		if !command.Is(text, ShowCommand) {
			continue
		}
		if cmdEl != nil {
			return fmt.Errorf("'%s' and '%s': %w", cmdText, text, ErrMultipleShow)
		}
		cmdEl, cmdText = child, text
	}
	if cmdEl == nil {
		return nil
	}
	el.RemoveChild(cmdEl)

	cmd, err := command.Parse(cmdText)
	if err != nil {
		return err
	}
	checked, err := cmd.Positional(0, "item to check")
	if err != nil {
		return err
	}
	allowed := make([]string, 0, cmd.NumPositional())
	for i := 1; i < cmd.NumPositional(); i++ {
		v, err := cmd.Positional(i, "allowed value")
		if err != nil {
			return err
		}
		allowed = append(allowed, v)
	}
	if err := cmd.Finalize(); err != nil {
		return err
	}

	if !slices.Contains(allowed, checked) {
		clearElement(el)
	}
	return nil
}

// clearElement drops all content and attributes of the element.
func clearElement(el *etree.Element) {
	for len(el.Child) > 0 {
		el.RemoveChildAt(len(el.Child) - 1)
	}
	el.Attr = nil
}
