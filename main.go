// main.go - pvrdump: feeds a raw TA command stream through PVRCore and
// dumps the resulting frame to PNG via the PNG presenter.

package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	taFile := flag.String("ta", "", "path to a raw TA command stream (32-byte words, .bin)")
	outDir := flag.String("out", "./pvrdump-out", "directory to write frame-NNNNNN.png into")
	vramSize := flag.Int("vram", 8<<20, "VRAM size in bytes")
	poolSize := flag.Int("workers", 4, "tile worker pool size (0 = synchronous)")
	regionBase := flag.Uint("region-base", 0, "REG_REGION_BASE value")
	paramBase := flag.Uint("param-base", 0, "REG_PARAM_BASE value")
	packMode := flag.Uint("fb-packmode", FBPackMode565, "FB_W_CTRL pack mode; writeout only supports 1=565")
	lineStrideWords := flag.Uint("fb-linestride", 159, "FB_W_LINESTRIDE value; bytes/line = (value+1)*8")
	sof1 := flag.Uint("fb-sof1", 0, "FB_W_SOF1 value")
	scalerCtl := flag.Uint("scaler-ctl", 0x400, "SCALER_CTL value (vscalefactor in the low 16 bits)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: pvrdump -ta stream.bin [options]\n\nDrives PVRCore from a captured TA command stream and writes the rendered frame to PNG.\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *taFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	stream, err := os.ReadFile(*taFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: reading TA stream: %v\n", err)
		os.Exit(1)
	}
	if len(stream)%32 != 0 {
		fmt.Fprintf(os.Stderr, "error: TA stream length %d is not a multiple of 32\n", len(stream))
		os.Exit(1)
	}

	vram := NewVRAM(*vramSize)
	core := NewPVRCore(vram, *poolSize, func() RasterBackend { return NewSoftwareBackend() }, nil, nil)
	defer core.Destroy()

	for off := 0; off < len(stream); off += 32 {
		if err := core.WriteTASQ(stream[off : off+32]); err != nil {
			fmt.Fprintf(os.Stderr, "error: TA word at offset %d: %v\n", off, err)
			os.Exit(1)
		}
	}

	core.HandleWrite(REG_REGION_BASE, uint32(*regionBase))
	core.HandleWrite(REG_PARAM_BASE, uint32(*paramBase))
	core.HandleWrite(REG_FB_W_CTRL, uint32(*packMode))
	core.HandleWrite(REG_FB_W_LINESTRIDE, uint32(*lineStrideWords))
	core.HandleWrite(REG_FB_W_SOF1, uint32(*sof1))
	core.HandleWrite(REG_SCALER_CTL, uint32(*scalerCtl))
	core.HandleWrite(REG_START_RENDER, 1)

	presenter, err := NewPresenter(PresenterBackendPNG, *outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating presenter: %v\n", err)
		os.Exit(1)
	}
	w, h := core.GetDimensions()
	if err := presenter.SetDisplayConfig(DisplayConfig{Width: w, Height: h, Scale: 1}); err != nil {
		fmt.Fprintf(os.Stderr, "error: configuring presenter: %v\n", err)
		os.Exit(1)
	}
	if err := presenter.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "error: starting presenter: %v\n", err)
		os.Exit(1)
	}
	defer presenter.Close()

	if err := presenter.UpdateFrame(core.GetFrame()); err != nil {
		fmt.Fprintf(os.Stderr, "error: writing frame: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote 1 frame (%dx%d) to %s\n", w, h, *outDir)
}
