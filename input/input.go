package input

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Reusable slice for gamepad IDs to avoid allocations
var gamepadIDs []ebiten.GamepadID

// ActionState represents the temporal state of an action
type ActionState struct {
	Pressed      bool // Currently held down
	JustPressed  bool // Pressed this frame
	JustReleased bool // Released this frame
}

// State stores the current and previous frame's pressed state for all actions.
// JustPressed/JustReleased are computed on demand by comparing frames.
type State struct {
	Current  [ActionCount]bool
	Previous [ActionCount]bool

	// Left stick, x right and y down, after the deadzone
	StickX, StickY float64
	// Right stick horizontal deflection, after the deadzone
	TurnX float64
	// Gamepad used this frame
	Gamepad bool
}

// Poll swaps buffers and reads every binding in cfg.
func (s *State) Poll(cfg Config) {
	s.Previous = s.Current
	s.Current = [ActionCount]bool{}
	s.StickX, s.StickY, s.TurnX = 0, 0, 0
	s.Gamepad = false

	gamepadIDs = ebiten.AppendGamepadIDs(gamepadIDs[:0])

	for actionID, binding := range cfg.Bindings {
		for _, key := range binding.Keys {
			if ebiten.IsKeyPressed(key) {
				s.Current[actionID] = true
			}
		}
		for _, btn := range binding.MouseButtons {
			if ebiten.IsMouseButtonPressed(btn) {
				s.Current[actionID] = true
			}
		}
		for _, gpID := range gamepadIDs {
			if !ebiten.IsStandardGamepadLayoutAvailable(gpID) {
				continue
			}
			for _, btn := range binding.StandardGamepadButtons {
				if ebiten.IsStandardGamepadButtonPressed(gpID, btn) {
					s.Current[actionID] = true
					s.Gamepad = true
				}
			}
		}
	}

	for _, gpID := range gamepadIDs {
		if !ebiten.IsStandardGamepadLayoutAvailable(gpID) {
			continue
		}
		s.StickX += deadzone(ebiten.StandardGamepadAxisValue(gpID, ebiten.StandardGamepadAxisLeftStickHorizontal), cfg.AnalogDeadzone)
		s.StickY += deadzone(ebiten.StandardGamepadAxisValue(gpID, ebiten.StandardGamepadAxisLeftStickVertical), cfg.AnalogDeadzone)
		s.TurnX += deadzone(ebiten.StandardGamepadAxisValue(gpID, ebiten.StandardGamepadAxisRightStickHorizontal), cfg.AnalogDeadzone)
	}
	if s.StickX != 0 || s.StickY != 0 || s.TurnX != 0 {
		s.Gamepad = true
	}
}

func deadzone(v, dz float64) float64 {
	if v > -dz && v < dz {
		return 0
	}
	return v
}

// Action returns the full ActionState for an action ID.
func (s *State) Action(id ActionID) ActionState {
	curr := s.Current[id]
	prev := s.Previous[id]
	return ActionState{
		Pressed:      curr,
		JustPressed:  curr && !prev,
		JustReleased: !curr && prev,
	}
}

// Latch marks every currently held action as already seen, so a key held
// across a scene change does not count as just pressed.
func (s *State) Latch() {
	s.Previous = s.Current
}
