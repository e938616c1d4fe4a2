package input

import (
	"sync"

	"statmap/internal/dataset"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action represents a logical viewer action, not a physical key
type Action int

// Action constants using iota
const (
	ActionShowPopulation Action = iota
	ActionShowGDP
	ActionShowArea
	ActionShowElevation
	ActionNextCategory
	ActionToggleProfiling
	ActionQuit
	ActionCount // Sentinel value for array sizing
)

// categoryActions maps the direct-selection actions to their category.
var categoryActions = map[Action]dataset.Category{
	ActionShowPopulation: dataset.Population,
	ActionShowGDP:        dataset.GDP,
	ActionShowArea:       dataset.Area,
	ActionShowElevation:  dataset.Elevation,
}

// InputManager manages keyboard state and maps physical keys to logical actions
type InputManager struct {
	mu sync.RWMutex

	// Key to action mapping (one key can map to multiple actions)
	keyToActions map[glfw.Key][]Action

	// Current frame state (indexed by Action)
	currentState [ActionCount]bool

	// Just pressed/released flags (reset each frame)
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool
}

// NewInputManager creates a new InputManager with default key bindings
func NewInputManager() *InputManager {
	im := &InputManager{
		keyToActions: make(map[glfw.Key][]Action),
	}

	im.BindKey(glfw.Key1, ActionShowPopulation)
	im.BindKey(glfw.KeyKP1, ActionShowPopulation)
	im.BindKey(glfw.Key2, ActionShowGDP)
	im.BindKey(glfw.KeyKP2, ActionShowGDP)
	im.BindKey(glfw.Key3, ActionShowArea)
	im.BindKey(glfw.KeyKP3, ActionShowArea)
	im.BindKey(glfw.Key4, ActionShowElevation)
	im.BindKey(glfw.KeyKP4, ActionShowElevation)
	im.BindKey(glfw.KeyTab, ActionNextCategory)
	im.BindKey(glfw.KeyV, ActionToggleProfiling)
	im.BindKey(glfw.KeyEscape, ActionQuit)
	im.BindKey(glfw.KeyQ, ActionQuit)

	return im
}

// BindKey binds a physical key to a logical action
// Multiple keys can be bound to the same action (e.g., WASD and arrow keys)
func (im *InputManager) BindKey(key glfw.Key, action Action) {
	im.mu.Lock()
	defer im.mu.Unlock()

	if action < 0 || action >= ActionCount {
		return
	}

	im.keyToActions[key] = append(im.keyToActions[key], action)
}

// UnbindKey removes all action bindings for a key
func (im *InputManager) UnbindKey(key glfw.Key) {
	im.mu.Lock()
	defer im.mu.Unlock()

	delete(im.keyToActions, key)
}

// HandleKeyEvent processes a key event and updates internal state
// This can be called from a custom key callback
func (im *InputManager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	im.mu.RLock()
	actions, exists := im.keyToActions[key]
	im.mu.RUnlock()

	if !exists {
		return
	}

	isPressed := action == glfw.Press || action == glfw.Repeat

	im.mu.Lock()
	for _, act := range actions {
		if act >= 0 && act < ActionCount {
			// Detect edges immediately when event arrives
			if isPressed && !im.currentState[act] {
				im.justPressed[act] = true
			}
			if !isPressed && im.currentState[act] {
				im.justReleased[act] = true
			}
			im.currentState[act] = isPressed
		}
	}
	im.mu.Unlock()
}

// SetKeyCallback sets up the GLFW key callback for this input manager
// This should be called once during initialization
func (im *InputManager) SetKeyCallback(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleKeyEvent(key, action)
	})
}

// PostUpdate must be called at the end of each frame to update edge detection states
// This should be called after all input checks are done
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	defer im.mu.Unlock()

	for i := Action(0); i < ActionCount; i++ {
		im.justPressed[i] = false
		im.justReleased[i] = false
	}
}

// IsActive returns true if the action is currently being held down
func (im *InputManager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.currentState[action]
}

// JustPressed returns true only if the action was pressed in the current frame
func (im *InputManager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.justPressed[action]
}

// JustReleased returns true only if the action was released in the current frame
func (im *InputManager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	return im.justReleased[action]
}

// CategoryRequest resolves this frame's key presses against current. A
// direct selection wins over cycling; ok is false when nothing was pressed
// or the result equals current.
func (im *InputManager) CategoryRequest(current dataset.Category) (dataset.Category, bool) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	next, direct := current, false
	for act := ActionShowPopulation; act <= ActionShowElevation; act++ {
		if im.justPressed[act] {
			next, direct = categoryActions[act], true
		}
	}
	if !direct && im.justPressed[ActionNextCategory] {
		next = current.Next()
	}
	return next, next != current
}
