package components

import "github.com/yohamta/donburi"

// ResultsOption is an entry of the results screen menu.
type ResultsOption int

const (
	ResultsPlayAgain ResultsOption = iota
	ResultsMainMenu
	ResultsOptionCount
)

// ResultsMenuData is the cursor of the results screen menu.
type ResultsMenuData struct {
	Selected ResultsOption
}

// Step moves the cursor by delta entries, wrapping at both ends.
func (m *ResultsMenuData) Step(delta int) {
	n := int(ResultsOptionCount)
	m.Selected = ResultsOption(((int(m.Selected)+delta)%n + n) % n)
}

var ResultsMenu = donburi.NewComponentType[ResultsMenuData]()
