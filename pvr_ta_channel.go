// pvr_ta_channel.go - per-channel TA command stream state

package main

import (
	"encoding/binary"
	"fmt"
)

// TaChannel owns the FSM current state, the tactx buffer, and the list
// marker explicitly, rather than as process-wide globals, so a core can run
// multiple independent TA channels side by side.
type TaChannel struct {
	state          uint8
	listTypeMarker uint32 // 0..4, or ListNone(7) when no list is open
	buf            []byte // raw tactx: exactly the bytes received
	boundaries     []int  // byte offsets of completed-list commit points
	initialized    bool

	interrupts InterruptSink
	log        Logger
}

func NewTaChannel(interrupts InterruptSink, log Logger) *TaChannel {
	return &TaChannel{
		state:          StateNS,
		listTypeMarker: ListNone,
		interrupts:     interrupts,
		log:            log,
	}
}

// SoftReset sets state to NS without touching the tactx buffer.
func (c *TaChannel) SoftReset() {
	c.state = StateNS
}

// ListInit clears the channel's partial buffer and resets the list marker.
func (c *TaChannel) ListInit() {
	c.buf = c.buf[:0]
	c.boundaries = c.boundaries[:0]
	c.listTypeMarker = ListNone
	c.state = StateNS
	c.initialized = true
}

// ListCont retains the buffer up to the last committed list boundary.
func (c *TaChannel) ListCont() {
	if n := len(c.boundaries); n > 0 {
		c.buf = c.buf[:c.boundaries[n-1]]
	} else {
		c.buf = c.buf[:0]
	}
	c.listTypeMarker = ListNone
	c.state = StateNS
	c.initialized = true
}

// State returns the channel's current FSM state, mainly for tests.
func (c *TaChannel) State() uint8 { return c.state }

// ListMarker returns the current list-type-being-appended marker.
func (c *TaChannel) ListMarker() uint32 { return c.listTypeMarker }

// Tactx returns the raw stream received so far, exactly as appended.
func (c *TaChannel) Tactx() []byte { return c.buf }

// WriteWord32 appends one 32-byte command word verbatim to the tactx buffer
// and then advances the FSM by one step.
func (c *TaChannel) WriteWord32(word []byte) error {
	if len(word) != 32 {
		return fmt.Errorf("ta: unaligned word: got %d bytes, want 32", len(word))
	}
	if !c.initialized {
		c.log.Logf("ta: data sent before list-init, performing implicit ListInit")
		c.ListInit()
	}
	c.buf = append(c.buf, word...)

	pcw := decodePCW(binary.LittleEndian.Uint32(word[0:4]))
	c.step(pcw)
	return nil
}

// TAWriteSQ is the 32-byte burst alias for WriteWord32.
func (c *TaChannel) TAWriteSQ(word []byte) error { return c.WriteWord32(word) }

// ta_vtx_data32 reads one 32-byte command word from VRAM and feeds it.
func (c *TaChannel) ta_vtx_data32(vram *VRAM, ptr uint32) error {
	word, err := vram.ReadBytes32(ptr, 32)
	if err != nil {
		return err
	}
	return c.WriteWord32(word)
}

// ta_vtx_data reads count32 consecutive 32-byte words starting at ptr.
func (c *TaChannel) ta_vtx_data(vram *VRAM, ptr uint32, count32 uint32) error {
	for i := uint32(0); i < count32; i++ {
		if err := c.ta_vtx_data32(vram, ptr+i*32); err != nil {
			return err
		}
	}
	return nil
}

func (c *TaChannel) step(pcw PCW) {
	if !paraTypeValid(pcw.ParaType) {
		c.log.Logf("ta: malformed ParaType %d in state %s, ignoring", pcw.ParaType, taStateNames[c.state])
		return
	}

	ctrlIdx := ctrlIdxFromObjCtrl(pcw.ObjCtrl)
	cell := taTransitionTable[cellIndex(uint32(c.state), pcw.ParaType, ctrlIdx)]
	if cell.poisoned {
		c.log.Logf("ta: malformed input: no transition for state %s ParaType %d ctrlIdx %d, ignoring",
			taStateNames[c.state], pcw.ParaType, ctrlIdx)
		return
	}

	if !cell.mustHandle {
		c.state = cell.next
		return
	}

	intermediate, relookup := c.handle(pcw)
	if !relookup {
		c.state = intermediate
		return
	}

	cell2 := taTransitionTable[cellIndex(uint32(intermediate), pcw.ParaType, ctrlIdx)]
	if cell2.poisoned {
		c.log.Logf("ta: malformed input after handler: no transition for state %s ParaType %d ctrlIdx %d",
			taStateNames[intermediate], pcw.ParaType, ctrlIdx)
		return
	}
	c.state = cell2.next
}

// handle runs the must_handle command handler and returns the state to
// commit (relookup=false) or the intermediate state to re-query the
// transition table with (relookup=true).
func (c *TaChannel) handle(pcw PCW) (state uint8, relookup bool) {
	if c.listTypeMarker == ListNone {
		c.listTypeMarker = pcw.ListType
	}

	switch pcw.ParaType {
	case ParaEndOfList:
		if id, ok := listInterruptFor(c.listTypeMarker); ok {
			c.interrupts.RaiseInterrupt(id)
		} else {
			c.log.Logf("ta: End_Of_List with no recognized list type %d", c.listTypeMarker)
		}
		c.listTypeMarker = ListNone
		c.boundaries = append(c.boundaries, len(c.buf))
		return StateNS, false

	case ParaPolygonOrModifierVolume:
		if isModVolumeListType(pcw.ListType) {
			return StateMLV64, true
		}
		return StatePLV32, true

	case ParaSprite:
		if isModVolumeListType(pcw.ListType) {
			c.log.Logf("ta: Sprite parameter in modifier-volume list type %d, ignoring", pcw.ListType)
			return StateNS, false
		}
		return StatePLV32, true
	}

	return StateNS, false
}

func isModVolumeListType(lt uint32) bool {
	return lt == ListOpaqueMod || lt == ListTransMod
}

func listInterruptFor(lt uint32) (int, bool) {
	if lt > ListPunchThrough {
		return 0, false
	}
	return listInterrupt[lt], true
}
