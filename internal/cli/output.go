package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/mcoot/demonkingdom/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Player:
		o.printPlayer(v)
	case response.RegisterResponse:
		o.printRegister(v)
	case response.Status:
		o.printStatus(v)
	case response.MagicPowers:
		o.printMagic(v)
	case response.Companions:
		o.printCompanions(v)
	case response.Swords:
		o.printSwords(v)
	case response.Sword:
		fmt.Fprintf(o.w, "Equipped: %s (%s)\n", v.Key, v.Description)
	case response.BattleOutcome:
		o.printBattle(v)
	case response.GiftResult:
		o.printGift(v)
	case response.Relations:
		o.printRelations(v)
	case response.Health:
		o.printHealth(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printPlayer(p response.Player) {
	fmt.Fprintf(o.w, "Player: %s (%d)\n", p.DisplayName, p.ID)
	if p.IsPrivileged {
		fmt.Fprintln(o.w, "Privileged: yes")
	}
}

func (o *Output) printRegister(r response.RegisterResponse) {
	if r.Created {
		fmt.Fprintln(o.w, "Registered!")
	} else {
		fmt.Fprintln(o.w, "Already registered.")
	}
	o.printStatus(r.Status)
}

func (o *Output) printStatus(s response.Status) {
	o.printPlayer(s.Player)
	fmt.Fprintf(o.w, "Kingdom: %s (defense %d)\n", s.KingdomName, s.KingdomDefense)
	fmt.Fprintf(o.w, "Level: %d  Exp: %d\n", s.Level, s.Exp)
	fmt.Fprintf(o.w, "HP: %d  MP: %d\n", s.HP, s.MP)
	fmt.Fprintf(o.w, "Gold: %d\n", s.Gold)
	fmt.Fprintf(o.w, "Demons defeated: %d\n", s.DemonsDefeated)
	fmt.Fprintf(o.w, "Sword: %s\n", s.ActiveSword)
	fmt.Fprintf(o.w, "Allies: %s\n", joinIDs(s.Allies))
	fmt.Fprintf(o.w, "Enemies: %s\n", joinIDs(s.Enemies))
	if len(s.Inventory) > 0 {
		fmt.Fprintln(o.w, "Inventory:")
		for _, item := range slices.Sorted(maps.Keys(s.Inventory)) {
			fmt.Fprintf(o.w, "  - %s x%d\n", item, s.Inventory[item])
		}
	}
}

func (o *Output) printMagic(m response.MagicPowers) {
	if len(m.Powers) == 0 {
		fmt.Fprintln(o.w, "No magic powers unlocked yet.")
		return
	}
	fmt.Fprintf(o.w, "Magic powers (%d):\n", len(m.Powers))
	for _, p := range m.Powers {
		fmt.Fprintf(o.w, "  - %s\n", p)
	}
}

func (o *Output) printCompanions(c response.Companions) {
	if len(c.Companions) == 0 {
		fmt.Fprintln(o.w, "No companions yet.")
		return
	}
	for _, comp := range c.Companions {
		fmt.Fprintf(o.w, "%s (level %d): HP %d, ATK %d, DEF %d\n",
			comp.Name, comp.Level, comp.HP, comp.Attack, comp.Defense)
		fmt.Fprintf(o.w, "  %s\n", comp.Description)
	}
}

func (o *Output) printSwords(s response.Swords) {
	for _, sw := range s.Swords {
		marker := " "
		if sw.Active {
			marker = "*"
		}
		fmt.Fprintf(o.w, "%s %s: %s\n", marker, sw.Key, sw.Description)
	}
}

func (o *Output) printBattle(b response.BattleOutcome) {
	fmt.Fprintf(o.w, "Attack %d vs demon defense %d (%d allies)\n", b.Attack, b.Defense, b.AllyCount)
	if b.Won {
		fmt.Fprintf(o.w, "Victory! +%d exp, +%d gold\n", b.ExpGained, b.GoldGained)
		if b.LeveledUp {
			fmt.Fprintf(o.w, "Level up! Now level %d\n", b.NewLevel)
		}
	} else {
		fmt.Fprintln(o.w, "Defeat.")
		fmt.Fprintf(o.w, "HP: %d -> %d\n", b.OldHP, b.NewHP)
	}
	fmt.Fprintf(o.w, "Gold: %d -> %d\n", b.OldGold, b.NewGold)
}

func (o *Output) printGift(g response.GiftResult) {
	fmt.Fprintf(o.w, "Gave %d gold to %s\n", g.Amount, g.TargetDisplayName)
	fmt.Fprintf(o.w, "Your gold: %d\n", g.SenderBalance)
	fmt.Fprintf(o.w, "Their gold: %d\n", g.TargetBalance)
}

func (o *Output) printRelations(r response.Relations) {
	fmt.Fprintf(o.w, "Allies: %s\n", joinIDs(r.Allies))
	fmt.Fprintf(o.w, "Enemies: %s\n", joinIDs(r.Enemies))
}

func (o *Output) printHealth(h response.Health) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Players: %d\n", h.PlayerCount)
	if h.LastSave != nil {
		fmt.Fprintf(o.w, "Last save: %s", h.LastSave.Format("2006-01-02 15:04:05 MST"))
		if h.SecondsSinceSave != nil {
			fmt.Fprintf(o.w, " (%ds ago)", *h.SecondsSinceSave)
		}
		fmt.Fprintln(o.w)
	} else {
		fmt.Fprintln(o.w, "Last save: never")
	}
}

func joinIDs(ids []int64) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, ", ")
}
