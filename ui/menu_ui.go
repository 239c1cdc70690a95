package ui

import (
	"bytes"
	"fmt"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// SessionEntry is one hosted session shown in the browser list.
type SessionEntry struct {
	ID       string
	HostName string
	Players  int
}

// MenuUI is the main menu: player name, session id, host and join buttons,
// a list of sessions from the registry and a status line.
type MenuUI struct {
	UI *ebitenui.UI

	OnHost    func(name string)
	OnJoin    func(name, sessionID string)
	OnRefresh func()
	OnQuit    func()

	nameInput    *widget.TextInput
	sessionInput *widget.TextInput
	statusLabel  *widget.Label
	browseLabel  *widget.Label
	sessionList  *widget.Container
	hostBtn      *widget.Button
	joinBtn      *widget.Button
	refreshBtn   *widget.Button

	titleFace  text.Face
	normalFace text.Face
	smallFace  text.Face
}

// NewMenuUI builds the menu. browse adds the session list and its refresh
// button; without a registry there is nothing to list.
func NewMenuUI(name, lastSession string, browse bool) *MenuUI {
	ui := &MenuUI{}
	ui.loadFonts()
	ui.buildUI(browse)
	ui.nameInput.SetText(name)
	ui.sessionInput.SetText(lastSession)
	return ui
}

func (ui *MenuUI) loadFonts() {
	fontSource, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Fatalf("failed to load UI font: %v", err)
	}

	ui.titleFace = &text.GoTextFace{Source: fontSource, Size: 36}
	ui.normalFace = &text.GoTextFace{Source: fontSource, Size: 16}
	ui.smallFace = &text.GoTextFace{Source: fontSource, Size: 13}
}

func (ui *MenuUI) buildUI(browse bool) {
	rootContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(color.RGBA{20, 20, 30, 255})),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)

	contentContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(16)),
			widget.RowLayoutOpts.Spacing(10),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
	)

	contentContainer.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("PEERFIRE", &ui.titleFace, &widget.LabelColor{
			Idle: color.RGBA{255, 120, 60, 255},
		}),
	))

	ui.nameInput = ui.newTextInput("Player", 220)
	contentContainer.AddChild(ui.row("Name:    ", ui.nameInput))

	ui.sessionInput = ui.newTextInput("session id", 220)
	contentContainer.AddChild(ui.row("Session:", ui.sessionInput))

	ui.hostBtn = ui.newButton("Host game", color.RGBA{40, 100, 40, 255}, func() {
		if ui.OnHost != nil {
			ui.OnHost(ui.nameInput.GetText())
		}
	})
	ui.joinBtn = ui.newButton("Join game", color.RGBA{40, 70, 120, 255}, func() {
		if ui.OnJoin != nil {
			ui.OnJoin(ui.nameInput.GetText(), ui.sessionInput.GetText())
		}
	})
	quitBtn := ui.newButton("Quit", color.RGBA{60, 60, 80, 255}, func() {
		if ui.OnQuit != nil {
			ui.OnQuit()
		}
	})
	contentContainer.AddChild(ui.hbox(ui.hostBtn, ui.joinBtn, quitBtn))

	ui.statusLabel = widget.NewLabel(
		widget.LabelOpts.Text("", &ui.smallFace, &widget.LabelColor{
			Idle: color.RGBA{255, 200, 100, 255},
		}),
	)
	contentContainer.AddChild(ui.statusLabel)

	if browse {
		contentContainer.AddChild(ui.buildBrowsePanel())
	}

	rootContainer.AddChild(contentContainer)

	ui.UI = &ebitenui.UI{Container: rootContainer}
}

func (ui *MenuUI) buildBrowsePanel() *widget.Container {
	padding := widget.Insets{Top: 6, Bottom: 6, Left: 8, Right: 8}
	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(color.RGBA{30, 30, 45, 255})),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(&padding),
			widget.RowLayoutOpts.Spacing(6),
		)),
	)

	ui.refreshBtn = ui.newButton("Refresh", color.RGBA{60, 60, 80, 255}, func() {
		if ui.OnRefresh != nil {
			ui.OnRefresh()
		}
	})
	ui.browseLabel = widget.NewLabel(
		widget.LabelOpts.Text("", &ui.smallFace, &widget.LabelColor{
			Idle: color.RGBA{180, 180, 200, 255},
		}),
	)
	panel.AddChild(ui.hbox(ui.refreshBtn, ui.browseLabel))

	ui.sessionList = widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(4),
		)),
	)
	panel.AddChild(ui.sessionList)
	return panel
}

func (ui *MenuUI) row(label string, input *widget.TextInput) *widget.Container {
	return ui.hbox(widget.NewLabel(
		widget.LabelOpts.Text(label, &ui.normalFace, &widget.LabelColor{
			Idle: color.RGBA{200, 200, 200, 255},
		}),
	), input)
}

func (ui *MenuUI) hbox(children ...widget.PreferredSizeLocateableWidget) *widget.Container {
	c := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(8),
		)),
	)
	for _, child := range children {
		c.AddChild(child)
	}
	return c
}

func (ui *MenuUI) newTextInput(placeholder string, width int) *widget.TextInput {
	return widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(widget.WidgetOpts.MinSize(width, 26)),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     image.NewNineSliceColor(color.RGBA{50, 50, 70, 255}),
			Disabled: image.NewNineSliceColor(color.RGBA{40, 40, 50, 255}),
		}),
		widget.TextInputOpts.Face(&ui.normalFace),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:          color.RGBA{255, 255, 255, 255},
			Disabled:      color.RGBA{128, 128, 128, 255},
			Caret:         color.RGBA{255, 255, 255, 255},
			DisabledCaret: color.RGBA{128, 128, 128, 255},
		}),
		widget.TextInputOpts.Placeholder(placeholder),
		widget.TextInputOpts.Padding(widget.NewInsetsSimple(4)),
	)
}

func (ui *MenuUI) newButton(label string, idle color.RGBA, onClick func()) *widget.Button {
	hover := color.RGBA{lighten(idle.R), lighten(idle.G), lighten(idle.B), 255}
	return widget.NewButton(
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(110, 28)),
		widget.ButtonOpts.Image(&widget.ButtonImage{
			Idle:     image.NewNineSliceColor(idle),
			Hover:    image.NewNineSliceColor(hover),
			Pressed:  image.NewNineSliceColor(color.RGBA{30, 30, 40, 255}),
			Disabled: image.NewNineSliceColor(color.RGBA{40, 40, 40, 255}),
		}),
		widget.ButtonOpts.Text(label, &ui.normalFace, &widget.ButtonTextColor{
			Idle:     color.RGBA{255, 255, 255, 255},
			Hover:    color.RGBA{255, 255, 220, 255},
			Pressed:  color.RGBA{200, 200, 200, 255},
			Disabled: color.RGBA{100, 100, 100, 255},
		}),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			onClick()
		}),
	)
}

func lighten(v uint8) uint8 {
	return uint8(min(int(v)+30, 255))
}

// SetSessions replaces the browser list. Clicking an entry fills in the
// session id.
func (ui *MenuUI) SetSessions(sessions []SessionEntry) {
	if ui.sessionList == nil {
		return
	}
	ui.sessionList.RemoveChildren()
	for _, s := range sessions {
		id := s.ID
		label := fmt.Sprintf("%s  %s (%d)", s.ID, s.HostName, s.Players)
		ui.sessionList.AddChild(ui.newButton(label, color.RGBA{45, 45, 65, 255}, func() {
			ui.sessionInput.SetText(id)
		}))
	}
}

func (ui *MenuUI) SetStatus(msg string) {
	if ui.statusLabel != nil {
		ui.statusLabel.Label = msg
	}
}

func (ui *MenuUI) SetBrowseStatus(msg string) {
	if ui.browseLabel != nil {
		ui.browseLabel.Label = msg
	}
}

func (ui *MenuUI) SetRefreshing(refreshing bool) {
	if ui.refreshBtn != nil {
		ui.refreshBtn.GetWidget().Disabled = refreshing
	}
}

// SetBusy disables host and join while a request is in flight.
func (ui *MenuUI) SetBusy(busy bool) {
	ui.hostBtn.GetWidget().Disabled = busy
	ui.joinBtn.GetWidget().Disabled = busy
}

func (ui *MenuUI) Update() {
	ui.UI.Update()
}
