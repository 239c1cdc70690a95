package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultsMenuStep(t *testing.T) {
	var m ResultsMenuData
	m.Step(1)
	assert.Equal(t, ResultsMainMenu, m.Selected)
	m.Step(1)
	assert.Equal(t, ResultsPlayAgain, m.Selected)
	m.Step(-1)
	assert.Equal(t, ResultsMainMenu, m.Selected)
	m.Step(-5)
	assert.Equal(t, ResultsPlayAgain, m.Selected)
}
