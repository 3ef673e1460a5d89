// pvr_constants.go - PowerVR CLX2 Tile Accelerator / CORE register and field definitions

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine

License: GPLv3 or later
*/

package main

// PVR register bank base. The guest-facing register space is modeled as
// named offsets; the CPU/bus wiring that maps these into guest address
// space is an external collaborator and is not implemented here.
const (
	PVR_BASE = 0xA05F8000
	PVR_END  = 0xA05F9FFF
)

// Guest-facing registers consumed read-only by CORE.
const (
	REG_REGION_BASE     = PVR_BASE + 0x02C
	REG_PARAM_BASE      = PVR_BASE + 0x020
	REG_FPU_PARAM_CFG   = PVR_BASE + 0x0108
	REG_FPU_SHAD_SCALE  = PVR_BASE + 0x074
	REG_ISP_BACKGND_T   = PVR_BASE + 0x088
	REG_ISP_BACKGND_D   = PVR_BASE + 0x078
	REG_FB_R_SIZE       = PVR_BASE + 0x00C
	REG_FB_R_CTRL       = PVR_BASE + 0x000
	REG_FB_R_SOF1       = PVR_BASE + 0x050
	REG_FB_R_SOF2       = PVR_BASE + 0x054
	REG_FB_W_SOF1       = PVR_BASE + 0x060
	REG_FB_W_SOF2       = PVR_BASE + 0x064
	REG_FB_W_CTRL       = PVR_BASE + 0x048
	REG_FB_W_LINESTRIDE = PVR_BASE + 0x04C
	REG_SCALER_CTL      = PVR_BASE + 0x0D8
	REG_SPG_CONTROL     = PVR_BASE + 0x0D0
	REG_SPG_STATUS      = PVR_BASE + 0x10C
	REG_START_RENDER    = PVR_BASE + 0x014
)

// ParaType values recognized in the Parameter Control Word.
const (
	ParaEndOfList               = 0
	ParaUserTileClip            = 1
	ParaObjectListSet           = 2
	ParaPolygonOrModifierVolume = 4
	ParaSprite                  = 5
	ParaVertexParameter         = 7
)

func paraTypeValid(pt uint32) bool {
	switch pt {
	case ParaEndOfList, ParaUserTileClip, ParaObjectListSet, ParaPolygonOrModifierVolume, ParaSprite, ParaVertexParameter:
		return true
	}
	return false
}

// ListType values. ListNone (7) is the sentinel meaning "no list open".
const (
	ListOpaque       = 0
	ListOpaqueMod    = 1
	ListTrans        = 2
	ListTransMod     = 3
	ListPunchThrough = 4
	ListNone         = 7
)

// obj_ctrl bit layout (see DESIGN.md "PCW / obj_ctrl bit layout" for the
// reasoning). Chosen so (obj_ctrl>>2)&31 covers exactly ColType|Texture|
// Offset|UV16bit with no waste, matching the FSM index formula verbatim.
const (
	ObjCtrlShadowBit  = 1 << 0
	ObjCtrlVolumeBit  = 1 << 1
	ObjCtrlColTypeLSB = 2
	ObjCtrlColTypeMask = 0x3 << ObjCtrlColTypeLSB
	ObjCtrlTextureBit = 1 << 4
	ObjCtrlOffsetBit  = 1 << 5
	ObjCtrlUV16Bit    = 1 << 6
)

func objCtrlShadow(ctrl uint32) bool  { return ctrl&ObjCtrlShadowBit != 0 }
func objCtrlVolume(ctrl uint32) bool  { return ctrl&ObjCtrlVolumeBit != 0 }
func objCtrlColType(ctrl uint32) uint32 {
	return (ctrl & ObjCtrlColTypeMask) >> ObjCtrlColTypeLSB
}
func objCtrlTexture(ctrl uint32) bool { return ctrl&ObjCtrlTextureBit != 0 }
func objCtrlOffset(ctrl uint32) bool  { return ctrl&ObjCtrlOffsetBit != 0 }
func objCtrlUV16(ctrl uint32) bool    { return ctrl&ObjCtrlUV16Bit != 0 }

// Col_Type values.
const (
	ColTypePackedColor    = 0
	ColTypeFloatColor     = 1
	ColTypeIntensity      = 2
	ColTypePrevIntensity  = 3
)

// Semantic polygon type ids (0..14) selecting the shading recipe. Produced
// by the 256-entry LUT in pvr_pcw.go.
const (
	PolyOpaquePacked = iota
	PolyOpaqueFloat
	PolyOpaqueIntensity
	PolyOpaquePrevIntensity
	PolyOpaqueTexPacked
	PolyOpaqueTexFloat
	PolyOpaqueTexIntensity
	PolyOpaqueTexPrevIntensity
	PolyModifierVolume
	PolyModifierVolumeTex
	PolySprite
	PolySpriteTex
	PolyPackedOffset
	PolyTexOffset
	PolyIntensityOffset
	PolyInvalid = 0xFF
)

// TA FSM states.
const (
	StateNS = iota
	StatePLV32
	StatePLV64
	StateMLV64
	StatePLHV32
	StatePLHV64
	StatePLV64H
	StateMLV64H
	numTAStates
)

var taStateNames = [numTAStates]string{
	StateNS:     "NS",
	StatePLV32:  "PLV32",
	StatePLV64:  "PLV64",
	StateMLV64:  "MLV64",
	StatePLHV32: "PLHV32",
	StatePLHV64: "PLHV64",
	StatePLV64H: "PLV64_H",
	StateMLV64H: "MLV64_H",
}

// taSentinelBit marks a never-visited (poisoned) transition table cell.
const taSentinelBit = 0x80

// Interrupt ids raised by the TA front-end.
const (
	IntOpaque = iota
	IntOpaqueMod
	IntTrans
	IntTransMod
	IntPunchThrough
)

var listInterrupt = [5]int{
	ListOpaque:       IntOpaque,
	ListOpaqueMod:    IntOpaqueMod,
	ListTrans:        IntTrans,
	ListTransMod:     IntTransMod,
	ListPunchThrough: IntPunchThrough,
}

// Tile geometry.
const (
	TileSize        = 32
	RegionTileCols   = 64
	MaxLayerPeelPass = 60
)

// Render modes passed to RenderParamTags.
const (
	RenderModeOpaque = iota
	RenderModeTranslucent
)

// Modifier volume summarize modes.
const (
	VolumeModeOR  = 1
	VolumeModeAND = 2
)

// Region array control word bit layout.
const (
	RegionTileXShift   = 2
	RegionTileXMask    = 0x3F << RegionTileXShift
	RegionTileYShift   = 8
	RegionTileYMask    = 0x3F << RegionTileYShift
	RegionZKeepBit     = 1 << 14
	RegionNoWriteoutBit = 1 << 15
	RegionLastBit      = 1 << 31
)

// Region entry list-pointer "empty" bit (MSB of each pointer word).
const RegionPtrEmptyBit = 1 << 31

// Object list descriptor control bits.
const (
	ObjListNotStripBit = 1 << 31
	ObjListTypeShift    = 29
	ObjListTypeMask     = 0x3 << ObjListTypeShift
)

const (
	ObjListTypeArrayTris  = 0b00
	ObjListTypeArrayQuads = 0b01
	ObjListTypeLink       = 0b11
)

const (
	ObjLinkEndOfListBit = 1 << 28
	ObjLinkNextPtrMask  = 0x0FFFFFFF
)

// Strip / array descriptor field layout (when ObjListNotStripBit is clear,
// the descriptor is a triangle strip; the layout below applies to both
// strip and array/quad descriptors, which share the low param-offset field).
const (
	ObjParamOffsMask  = 0x1FFFFF // bits 0-20
	ObjSkipShift      = 21
	ObjSkipMask       = 0x7 << ObjSkipShift // bits 21-23
	ObjStripShadowBit = 1 << 24
	ObjStripVisShift  = 25
	ObjStripVisMask   = 0x3F << ObjStripVisShift // bits 25-30, 6-bit visibility mask
	ObjArrayPrimsShift = 21
	ObjArrayPrimsMask  = 0xFF << ObjArrayPrimsShift // bits 21-28
)

// Framebuffer writeout pack modes (FB_W_CTRL.fb_packmode).
const (
	FBPackMode555 = 0x0
	FBPackMode565 = 0x1
	FBPackMode888 = 0x2
	FBPackModeC888 = 0x3
)

var supportedVScaleFactors = map[uint32]bool{
	0x400: true,
	0x401: true,
	0x800: true,
}

// SCALER_CTL bit layout: vscalefactor occupies bits 0-15, interlace bit 16,
// fieldselect bit 17, hscale bit 18.
const ScalerCtlHScaleBit = 1 << 18
