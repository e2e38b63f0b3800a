package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// grab tracks one global key sequence. The keybind callback stays attached
// for the connection lifetime; active decides whether presses are reported.
type grab struct {
	active   bool
	callback func()
}

var ignoreModsOnce sync.Once

// GrabKey grabs keySequence (e.g. "Control-Mod1-Left") on the root window
// and invokes callback for each press while the grab is held.
func (c *Connection) GrabKey(keySequence string, callback func()) error {
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(c.XUtil)
	})

	c.keysMu.Lock()
	defer c.keysMu.Unlock()

	if g, ok := c.keys[keySequence]; ok {
		if g.active {
			return nil
		}
		mods, codes, err := keybind.ParseString(c.XUtil, keySequence)
		if err != nil {
			return err
		}
		for i, code := range codes {
			if err := keybind.GrabChecked(c.XUtil, c.Root, mods, code); err != nil {
				for _, prev := range codes[:i] {
					keybind.Ungrab(c.XUtil, c.Root, mods, prev)
				}
				return fmt.Errorf("grab %s: %w", keySequence, err)
			}
		}
		g.callback = callback
		g.active = true
		return nil
	}

	g := &grab{active: true, callback: callback}
	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		c.keysMu.Lock()
		active, cb := g.active, g.callback
		c.keysMu.Unlock()
		if active && cb != nil {
			cb()
		}
	}).Connect(c.XUtil, c.Root, keySequence, true)
	if err != nil {
		return fmt.Errorf("grab %s: %w", keySequence, err)
	}
	c.keys[keySequence] = g
	return nil
}

// UngrabKey releases a sequence grabbed with GrabKey. Releasing a sequence
// that is not held is a no-op.
func (c *Connection) UngrabKey(keySequence string) error {
	c.keysMu.Lock()
	defer c.keysMu.Unlock()

	g, ok := c.keys[keySequence]
	if !ok || !g.active {
		return nil
	}
	g.active = false

	mods, codes, err := keybind.ParseString(c.XUtil, keySequence)
	if err != nil {
		return err
	}
	for _, code := range codes {
		keybind.Ungrab(c.XUtil, c.Root, mods, code)
	}
	return nil
}

// configureIgnoreMods makes grabs fire regardless of CapsLock, NumLock and
// ScrollLock.
func configureIgnoreMods(xu *xgbutil.XUtil) {
	caps := uint16(xproto.ModMaskLock)
	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	// Every combination of the lock modifiers, including none.
	ignore := make([]uint16, 0, 1<<len(base))
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
