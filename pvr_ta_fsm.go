// pvr_ta_fsm.go - Tile Accelerator front-end state machine transition table

package main

// taCell is one entry of the precomputed 2048-cell transition table.
// When mustHandle is set, the command handler runs first and may replace
// the channel's notion of "current state" before the table is re-read a
// second time with the handler's chosen state to find the true next state;
// next here is unused in that case. Poisoned marks a cell the generator
// never assigned, i.e. a (state, ParaType, obj_ctrl>>2) combination that a
// conformant stream should never produce.
type taCell struct {
	next       uint8
	mustHandle bool
	poisoned   bool
}

const taCtrlIdxBits = 32 // (obj_ctrl>>2)&31

func cellIndex(state, paraType, ctrlIdx uint32) int {
	return int(((state*8)+paraType)*taCtrlIdxBits + ctrlIdx)
}

var taTransitionTable [numTAStates * 8 * taCtrlIdxBits]taCell

func init() {
	for state := uint32(0); state < numTAStates; state++ {
		for pt := uint32(0); pt < 8; pt++ {
			for ctrlIdx := uint32(0); ctrlIdx < taCtrlIdxBits; ctrlIdx++ {
				taTransitionTable[cellIndex(state, pt, ctrlIdx)] = taCell{
					next:     uint8(state) | taSentinelBit,
					poisoned: true,
				}
			}
		}
	}

	openListStates := []uint32{StateNS, StatePLV32, StatePLV64, StateMLV64}

	// End_Of_List: any open-list state -> NS, must_handle.
	for _, state := range openListStates {
		for ctrlIdx := uint32(0); ctrlIdx < taCtrlIdxBits; ctrlIdx++ {
			taTransitionTable[cellIndex(state, ParaEndOfList, ctrlIdx)] = taCell{next: StateNS, mustHandle: true}
		}
	}

	// User_Tile_Clip / Object_List_Set: 32B no-ops, state unchanged.
	for _, state := range openListStates {
		for _, pt := range []uint32{ParaUserTileClip, ParaObjectListSet} {
			for ctrlIdx := uint32(0); ctrlIdx < taCtrlIdxBits; ctrlIdx++ {
				taTransitionTable[cellIndex(state, pt, ctrlIdx)] = taCell{next: uint8(state)}
			}
		}
	}

	// Polygon_or_Modifier_Volume.
	for ctrlIdx := uint32(0); ctrlIdx < taCtrlIdxBits; ctrlIdx++ {
		entry := buildPolyTypeEntry(ctrlIdx << 2) // Volume=0, Shadow=0 reconstruction
		var direct uint8
		switch {
		case !entry.headerSize64 && !entry.vertexSize64:
			direct = StatePLV32
		case !entry.headerSize64 && entry.vertexSize64:
			direct = StatePLV64
		case entry.headerSize64 && !entry.vertexSize64:
			direct = StatePLHV32
		default:
			direct = StatePLHV64
		}
		taTransitionTable[cellIndex(StatePLV32, ParaPolygonOrModifierVolume, ctrlIdx)] = taCell{next: direct}
		taTransitionTable[cellIndex(StatePLV64, ParaPolygonOrModifierVolume, ctrlIdx)] = taCell{next: direct}
		taTransitionTable[cellIndex(StateMLV64, ParaPolygonOrModifierVolume, ctrlIdx)] = taCell{next: StateMLV64}
		taTransitionTable[cellIndex(StateNS, ParaPolygonOrModifierVolume, ctrlIdx)] = taCell{mustHandle: true}
	}

	// Sprite.
	for ctrlIdx := uint32(0); ctrlIdx < taCtrlIdxBits; ctrlIdx++ {
		taTransitionTable[cellIndex(StatePLV32, ParaSprite, ctrlIdx)] = taCell{next: StatePLV64}
		taTransitionTable[cellIndex(StatePLV64, ParaSprite, ctrlIdx)] = taCell{next: StatePLV64}
		taTransitionTable[cellIndex(StateNS, ParaSprite, ctrlIdx)] = taCell{mustHandle: true}
	}

	// Vertex_Parameter.
	for ctrlIdx := uint32(0); ctrlIdx < taCtrlIdxBits; ctrlIdx++ {
		taTransitionTable[cellIndex(StatePLV32, ParaVertexParameter, ctrlIdx)] = taCell{next: StatePLV32}
		taTransitionTable[cellIndex(StatePLV64, ParaVertexParameter, ctrlIdx)] = taCell{next: StatePLV64H}
		taTransitionTable[cellIndex(StateMLV64, ParaVertexParameter, ctrlIdx)] = taCell{next: StateMLV64H}
		// Vertex_Parameter in NS is malformed input; left poisoned.
	}

	// Half-states unconditionally complete on the next 32-byte word,
	// regardless of ParaType or obj_ctrl.
	halfTransitions := map[uint32]uint8{
		StatePLHV32: StatePLV32,
		StatePLHV64: StatePLV64,
		StatePLV64H: StatePLV64,
		StateMLV64H: StateMLV64,
	}
	for state, next := range halfTransitions {
		for pt := uint32(0); pt < 8; pt++ {
			for ctrlIdx := uint32(0); ctrlIdx < taCtrlIdxBits; ctrlIdx++ {
				taTransitionTable[cellIndex(state, pt, ctrlIdx)] = taCell{next: next}
			}
		}
	}
}

func ctrlIdxFromObjCtrl(objCtrl uint32) uint32 {
	return (objCtrl >> 2) & (taCtrlIdxBits - 1)
}
