// pvr_ta_fsm_test.go - TA transition table construction tests

package main

import "testing"

func TestTaFsm_EndOfListClosesFromEveryOpenListState(t *testing.T) {
	for _, state := range []uint32{StateNS, StatePLV32, StatePLV64, StateMLV64} {
		for ctrlIdx := uint32(0); ctrlIdx < taCtrlIdxBits; ctrlIdx++ {
			cell := taTransitionTable[cellIndex(state, ParaEndOfList, ctrlIdx)]
			if cell.poisoned {
				t.Fatalf("state %s: End_Of_List unexpectedly poisoned at ctrlIdx %d", taStateNames[state], ctrlIdx)
			}
			if !cell.mustHandle {
				t.Fatalf("state %s: End_Of_List should require must_handle", taStateNames[state])
			}
		}
	}
}

func TestTaFsm_HalfStatesCompleteUnconditionally(t *testing.T) {
	halfTransitions := map[uint32]uint32{
		StatePLHV32: StatePLV32,
		StatePLHV64: StatePLV64,
		StatePLV64H: StatePLV64,
		StateMLV64H: StateMLV64,
	}
	for state, want := range halfTransitions {
		for pt := uint32(0); pt < 8; pt++ {
			for ctrlIdx := uint32(0); ctrlIdx < taCtrlIdxBits; ctrlIdx++ {
				cell := taTransitionTable[cellIndex(state, pt, ctrlIdx)]
				if cell.poisoned || cell.mustHandle {
					t.Fatalf("half state %s pt=%d ctrlIdx=%d: expected a plain unconditional transition", taStateNames[state], pt, ctrlIdx)
				}
				if uint32(cell.next) != want {
					t.Fatalf("half state %s pt=%d ctrlIdx=%d: next=%d, want %d", taStateNames[state], pt, ctrlIdx, cell.next, want)
				}
			}
		}
	}
}

func TestTaFsm_VertexParameterInNSIsPoisoned(t *testing.T) {
	for ctrlIdx := uint32(0); ctrlIdx < taCtrlIdxBits; ctrlIdx++ {
		cell := taTransitionTable[cellIndex(StateNS, ParaVertexParameter, ctrlIdx)]
		if !cell.poisoned {
			t.Fatalf("Vertex_Parameter in NS at ctrlIdx %d should be poisoned (malformed stream), got %+v", ctrlIdx, cell)
		}
	}
}

func TestTaFsm_PolygonInNSRequiresHandle(t *testing.T) {
	for ctrlIdx := uint32(0); ctrlIdx < taCtrlIdxBits; ctrlIdx++ {
		cell := taTransitionTable[cellIndex(StateNS, ParaPolygonOrModifierVolume, ctrlIdx)]
		if cell.poisoned || !cell.mustHandle {
			t.Fatalf("Polygon_or_Modifier_Volume in NS at ctrlIdx %d should require must_handle, got %+v", ctrlIdx, cell)
		}
	}
}

func TestTaFsm_VertexParameterStaysOpenInPLV32(t *testing.T) {
	for ctrlIdx := uint32(0); ctrlIdx < taCtrlIdxBits; ctrlIdx++ {
		cell := taTransitionTable[cellIndex(StatePLV32, ParaVertexParameter, ctrlIdx)]
		if cell.poisoned || cell.next != StatePLV32 {
			t.Fatalf("Vertex_Parameter in PLV32 at ctrlIdx %d should stay at PLV32, got %+v", ctrlIdx, cell)
		}
	}
}

func TestCtrlIdxFromObjCtrl_MasksToFiveBits(t *testing.T) {
	got := ctrlIdxFromObjCtrl(0xFF)
	if got != (0xFF>>2)&(taCtrlIdxBits-1) {
		t.Fatalf("ctrlIdxFromObjCtrl(0xFF) = %d, want %d", got, (0xFF>>2)&(taCtrlIdxBits-1))
	}
	if got >= taCtrlIdxBits {
		t.Fatalf("ctrlIdxFromObjCtrl must stay within [0, %d), got %d", taCtrlIdxBits, got)
	}
}
