package hw

// Tick advances the PPU by one dot.
func (p *PPU) Tick() {
	p.tickDot()

	p.Cycle++

	// On odd frames, when rendering is enabled, the last dot of the
	// pre-render line is skipped.
	if p.rendering() && p.oddFrame && p.Scanline == preRenderScanline && p.Cycle == 340 {
		p.Cycle = 0
		p.Scanline = 0
		p.oddFrame = !p.oddFrame
		return
	}

	if p.Cycle >= NumCycles {
		p.Cycle = 0
		p.Scanline++
		if p.Scanline >= NumScanlines {
			p.Scanline = 0
			p.oddFrame = !p.oddFrame
		}
	}
}

func (p *PPU) tickDot() {
	rendering := p.rendering()

	visibleLine := p.Scanline < postRenderScanline
	preLine := p.Scanline == preRenderScanline
	renderLine := visibleLine || preLine

	visibleCycle := p.Cycle >= 1 && p.Cycle <= 256
	prefetchCycle := p.Cycle >= 321 && p.Cycle <= 336
	fetchCycle := visibleCycle || prefetchCycle

	if rendering {
		if visibleLine && visibleCycle {
			p.renderPixel()
		}

		if renderLine && fetchCycle {
			p.tileData <<= 4
			switch p.Cycle % 8 {
			case 1:
				p.fetchNametableByte()
			case 3:
				p.fetchAttributeByte()
			case 5:
				p.fetchTileLo()
			case 7:
				p.fetchTileHi()
			case 0:
				p.storeTileData()
				p.incrementX()
			}
		}

		if renderLine {
			if p.Cycle == 256 {
				p.incrementY()
			}
			if p.Cycle == 257 {
				p.copyX()
			}
		}

		if preLine && p.Cycle >= 280 && p.Cycle <= 304 {
			p.copyY()
		}

		// Sprite evaluation and pattern fetches for the next scanline are
		// batched on dot 257.
		if p.Cycle == 257 {
			if visibleLine {
				p.evaluateSprites()
			} else {
				p.spriteCount = 0
			}
		}

		if p.Cycle == 260 && renderLine && p.scanlineHook != nil {
			p.scanlineHook()
		}
	} else if visibleLine && visibleCycle {
		// Rendering disabled: emit the backdrop color.
		p.putPixel(p.Cycle-1, p.Scanline, p.readPalette(0)&0x3F)
	}

	if p.Scanline == vblankScanline && p.Cycle == 1 {
		p.PPUSTATUS.SetBit(vblank)
		p.Frames++
		if p.PPUCTRL.GetBit(nmi) {
			p.CPU.setNMIflag()
		}
	}

	if preLine && p.Cycle == 1 {
		const mask = 1<<vblank | 1<<sprite0Hit | 1<<spriteOverflow
		p.PPUSTATUS.ClearBits(mask)
	}
}

/* loopy v/t updates */

func (p *PPU) incrementX() {
	if p.vramAddr&0x001F == 31 {
		p.vramAddr &^= 0x001F // coarse X = 0
		p.vramAddr ^= 0x0400  // switch horizontal nametable
	} else {
		p.vramAddr++
	}
}

func (p *PPU) incrementY() {
	if p.vramAddr&0x7000 != 0x7000 {
		p.vramAddr += 0x1000 // increment fine Y
		return
	}
	p.vramAddr &^= 0x7000 // fine Y = 0
	y := (p.vramAddr & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.vramAddr ^= 0x0800 // switch vertical nametable
	case 31:
		y = 0 // coarse Y wraps without switching nametable
	default:
		y++
	}
	p.vramAddr = (p.vramAddr &^ 0x03E0) | (y << 5)
}

func (p *PPU) copyX() {
	// v: ....A.. ...BCDEF <- t: ....A.. ...BCDEF
	p.vramAddr = (p.vramAddr &^ 0x041F) | (p.vramTmp & 0x041F)
}

func (p *PPU) copyY() {
	// v: GHIA.BC DEF..... <- t: GHIA.BC DEF.....
	p.vramAddr = (p.vramAddr &^ 0x7BE0) | (p.vramTmp & 0x7BE0)
}

/* background fetches */

func (p *PPU) fetchNametableByte() {
	addr := 0x2000 | (p.vramAddr & 0x0FFF)
	p.ntByte = p.Bus.Read8(addr, false)
}

func (p *PPU) fetchAttributeByte() {
	v := p.vramAddr
	addr := 0x23C0 | (v & 0x0C00) | ((v >> 4) & 0x38) | ((v >> 2) & 0x07)
	shift := ((v >> 4) & 4) | (v & 2)
	p.atByte = ((p.Bus.Read8(addr, false) >> shift) & 3) << 2
}

func (p *PPU) bgPatternAddr() uint16 {
	finey := (p.vramAddr >> 12) & 7
	table := uint16(p.PPUCTRL.GetBiti(backgroundAddr))
	return table*0x1000 + uint16(p.ntByte)*16 + finey
}

func (p *PPU) fetchTileLo() {
	p.tileLo = p.Bus.Read8(p.bgPatternAddr(), false)
}

func (p *PPU) fetchTileHi() {
	p.tileHi = p.Bus.Read8(p.bgPatternAddr()+8, false)
}

// storeTileData packs the fetched tile row into the low 32 bits of the shift
// register: eight 4-bit pixels (attribute bits above pattern bits).
func (p *PPU) storeTileData() {
	var data uint32
	for i := 0; i < 8; i++ {
		p1 := (p.tileLo & 0x80) >> 7
		p2 := (p.tileHi & 0x80) >> 6
		p.tileLo <<= 1
		p.tileHi <<= 1
		data <<= 4
		data |= uint32(p.atByte | p2 | p1)
	}
	p.tileData |= uint64(data)
}

func (p *PPU) backgroundPixel() uint8 {
	if !p.PPUMASK.GetBit(showBg) {
		return 0
	}
	data := uint32(p.tileData>>32) >> ((7 - p.finex) * 4)
	return uint8(data & 0x0F)
}

/* sprites */

// evaluateSprites scans primary OAM for the sprites in range of the next
// scanline, loading up to 8 of them, and fetches their pattern rows. The
// hardware's buggy diagonal overflow scan is not reproduced: finding a 9th
// in-range sprite simply sets the overflow flag.
func (p *PPU) evaluateSprites() {
	h := 8
	if p.PPUCTRL.GetBit(spriteSize) {
		h = 16
	}

	count := 0
	for i := 0; i < 64; i++ {
		y := p.oam[i*4+0]
		a := p.oam[i*4+2]
		x := p.oam[i*4+3]

		row := p.Scanline - int(y)
		if row < 0 || row >= h {
			continue
		}
		if count < 8 {
			p.spritePatterns[count] = p.fetchSpritePattern(i, row)
			p.spritePositions[count] = x
			p.spritePriorities[count] = (a >> 5) & 1
			p.spriteIndexes[count] = uint8(i)
		}
		count++
	}
	if count > 8 {
		count = 8
		p.PPUSTATUS.SetBit(spriteOverflow)
	}
	p.spriteCount = count
}

// fetchSpritePattern returns the packed 4-bit pixels of the given sprite row,
// flips applied.
func (p *PPU) fetchSpritePattern(i, row int) uint32 {
	tile := p.oam[i*4+1]
	attr := p.oam[i*4+2]

	var addr uint16
	if !p.PPUCTRL.GetBit(spriteSize) {
		if attr&0x80 != 0 {
			row = 7 - row
		}
		table := uint16(p.PPUCTRL.GetBiti(spriteAddr))
		addr = table*0x1000 + uint16(tile)*16 + uint16(row)
	} else {
		if attr&0x80 != 0 {
			row = 15 - row
		}
		table := uint16(tile & 1)
		tile &= 0xFE
		if row > 7 {
			tile++
			row -= 8
		}
		addr = table*0x1000 + uint16(tile)*16 + uint16(row)
	}

	lo := p.Bus.Read8(addr, false)
	hi := p.Bus.Read8(addr+8, false)

	palbits := (attr & 3) << 2
	var data uint32
	for j := 0; j < 8; j++ {
		var p1, p2 uint8
		if attr&0x40 != 0 { // horizontal flip
			p1 = (lo & 1) << 0
			p2 = (hi & 1) << 1
			lo >>= 1
			hi >>= 1
		} else {
			p1 = (lo & 0x80) >> 7
			p2 = (hi & 0x80) >> 6
			lo <<= 1
			hi <<= 1
		}
		data <<= 4
		data |= uint32(palbits | p2 | p1)
	}
	return data
}

// spritePixel returns the index (in the per-scanline sprite set) and the
// 4-bit color of the frontmost opaque sprite pixel at the current dot.
func (p *PPU) spritePixel() (int, uint8) {
	if !p.PPUMASK.GetBit(showSprites) {
		return 0, 0
	}
	x := p.Cycle - 1
	for i := 0; i < p.spriteCount; i++ {
		offset := x - int(p.spritePositions[i])
		if offset < 0 || offset > 7 {
			continue
		}
		color := uint8(p.spritePatterns[i] >> uint8((7-offset)*4) & 0x0F)
		if color%4 == 0 {
			continue
		}
		return i, color
	}
	return 0, 0
}

/* pixel mux */

func (p *PPU) renderPixel() {
	x := p.Cycle - 1
	y := p.Scanline

	background := p.backgroundPixel()
	i, sprite := p.spritePixel()

	if x < 8 {
		if !p.PPUMASK.GetBit(leftmostBg) {
			background = 0
		}
		if !p.PPUMASK.GetBit(leftmostSprites) {
			sprite = 0
		}
	}

	b := background%4 != 0
	s := sprite%4 != 0

	var color uint8
	switch {
	case !b && !s:
		color = 0
	case !b && s:
		color = sprite | 0x10
	case b && !s:
		color = background
	default:
		if p.spriteIndexes[i] == 0 && x < 255 {
			p.PPUSTATUS.SetBit(sprite0Hit)
		}
		if p.spritePriorities[i] == 0 {
			color = sprite | 0x10
		} else {
			color = background
		}
	}

	p.putPixel(x, y, p.readPalette(uint16(color))&0x3F)
}

func (p *PPU) putPixel(x, y int, idx uint8) {
	p.colorIdx[y*256+x] = idx

	c := Palette[idx]
	off := p.screen.PixOffset(x, y)
	pix := p.screen.Pix[off : off+4 : off+4]
	pix[0] = c.R
	pix[1] = c.G
	pix[2] = c.B
	pix[3] = c.A
}
