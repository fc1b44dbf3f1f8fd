package retained

import "github.com/agiangrant/anchorui/scene"

// Compound widgets own auxiliary child entities. Each create function makes
// the children that are still missing and is safe to call any number of
// times; each destroy function destroys them and clears the references.

// ============================================================================
// Button
// ============================================================================

func (s *System) createButtonObjects(e scene.Entity, b *Button) {
	if b.Label != scene.NullEntity {
		return
	}
	b.Label = s.newNode(e)
	scene.AddComponent(s.scene, b.Label, s.newTextComponent(""))
	ui := scene.AddComponent(s.scene, b.Label, NewUIComponent())
	ui.Color = black
	scene.GetComponent[Layout](s.scene, b.Label).IgnoreEvents = true
}

// ButtonLabel returns the label text of button e, creating it if needed.
func (s *System) ButtonLabel(e scene.Entity) *Text {
	b := scene.GetComponent[Button](s.scene, e)
	s.createButtonObjects(e, b)
	return scene.GetComponent[Text](s.scene, b.Label)
}

func (s *System) updateButton(e scene.Entity, b *Button, ui *UIComponent) {
	s.createButtonObjects(e, b)

	if !ui.Loaded && b.TextureNormal.IsZero() {
		b.TextureNormal = ui.Texture
	}

	label := scene.GetComponent[Layout](s.scene, b.Label)
	label.Width, label.Height = 0, 0
	label.SetAnchorPreset(AnchorCenter)

	text := scene.GetComponent[Text](s.scene, b.Label)
	text.NeedUpdateText = true
	s.updateText(text, scene.GetComponent[UIComponent](s.scene, b.Label), label)

	if tex := b.texture(); ui.Texture != tex {
		ui.Texture = tex
		ui.NeedUpdateTexture = true
	}
}

func (s *System) destroyButton(b *Button) {
	b.NeedUpdateButton = true
	if b.Label != scene.NullEntity {
		s.scene.DestroyEntity(b.Label)
		b.Label = scene.NullEntity
	}
}

// ============================================================================
// Panel
// ============================================================================

func (s *System) createPanelObjects(e scene.Entity, p *Panel) {
	if p.HeaderImage == scene.NullEntity {
		p.HeaderImage = s.newNode(e)
		scene.AddComponent(s.scene, p.HeaderImage, NewUIComponent())
		scene.AddComponent(s.scene, p.HeaderImage, Image{NeedUpdatePatches: true})
		l := scene.GetComponent[Layout](s.scene, p.HeaderImage)
		l.Width, l.Height = 1, 1
		l.IgnoreEvents = true
	}
	if p.HeaderContainer == scene.NullEntity {
		p.HeaderContainer = s.newNode(p.HeaderImage)
		scene.AddComponent(s.scene, p.HeaderContainer, NewContainer(ContainerHorizontal))
		scene.GetComponent[Layout](s.scene, p.HeaderContainer).IgnoreEvents = true
	}
	if p.HeaderText == scene.NullEntity {
		p.HeaderText = s.newNode(p.HeaderContainer)
		scene.AddComponent(s.scene, p.HeaderText, NewUIComponent())
		scene.AddComponent(s.scene, p.HeaderText, s.newTextComponent(""))
		scene.GetComponent[Layout](s.scene, p.HeaderText).IgnoreEvents = true
	}
}

// PanelTitle returns the title text of panel e, creating it if needed.
func (s *System) PanelTitle(e scene.Entity) *Text {
	p := scene.GetComponent[Panel](s.scene, e)
	s.createPanelObjects(e, p)
	return scene.GetComponent[Text](s.scene, p.HeaderText)
}

func (s *System) updatePanel(e scene.Entity, p *Panel, img *Image) {
	s.createPanelObjects(e, p)

	header := scene.GetComponent[Layout](s.scene, p.HeaderImage)
	header.SetAnchorPreset(AnchorTopWide)
	header.IgnoreScissor = true
	if header.Height != img.PatchMarginTop {
		header.Height = img.PatchMarginTop
		header.NeedUpdateSizes = true
	}

	box := scene.GetComponent[Layout](s.scene, p.HeaderContainer)
	box.SetAnchorPreset(AnchorFullLayout)
	box.IgnoreScissor = true
	scene.GetComponent[Container](s.scene, p.HeaderContainer).Type = ContainerHorizontal

	titleUI := scene.GetComponent[UIComponent](s.scene, p.HeaderText)
	titleUI.Color = black
	title := scene.GetComponent[Layout](s.scene, p.HeaderText)
	title.Width, title.Height = 0, 0
	title.SetAnchorPreset(p.TitleAnchorPreset)
	title.IgnoreScissor = true

	text := scene.GetComponent[Text](s.scene, p.HeaderText)
	text.NeedUpdateText = true
	s.updateText(text, titleUI, title)
}

func (s *System) destroyPanel(p *Panel) {
	p.NeedUpdatePanel = true
	for _, e := range []*scene.Entity{&p.HeaderText, &p.HeaderContainer, &p.HeaderImage} {
		if *e != scene.NullEntity {
			s.scene.DestroyEntity(*e)
			*e = scene.NullEntity
		}
	}
}

// resizeProbes computes the five border rectangles of a panel in world
// pixels. The side probes start below the header.
func resizeProbes(tr *scene.Transform, l *Layout, margin, headerHeight float32) [5]Bounds {
	x, y := tr.WorldPosition.X, tr.WorldPosition.Y
	w, h := l.Width*tr.WorldScale.X, l.Height*tr.WorldScale.Y
	mx, my := margin*tr.WorldScale.X, margin*tr.WorldScale.Y
	header := headerHeight * tr.WorldScale.Y

	rect := func(minX, minY, maxX, maxY float32) Bounds {
		return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	}
	return [5]Bounds{
		ResizeRight - 1:       rect(x+w-mx, y+header, x+w, y+h-my-1),
		ResizeRightBottom - 1: rect(x+w-mx, y+h-my, x+w, y+h),
		ResizeBottom - 1:      rect(x+mx+1, y+h-my, x+w-mx-1, y+h),
		ResizeLeftBottom - 1:  rect(x, y+h-my, x+mx, y+h),
		ResizeLeft - 1:        rect(x, y+header, x+mx, y+h-my-1),
	}
}

// ============================================================================
// Scrollbar
// ============================================================================

func (s *System) createScrollbarObjects(e scene.Entity, sb *Scrollbar) {
	if sb.Bar != scene.NullEntity {
		return
	}
	sb.Bar = s.newNode(e)
	scene.AddComponent(s.scene, sb.Bar, NewUIComponent())
	scene.AddComponent(s.scene, sb.Bar, Image{NeedUpdatePatches: true})
	l := scene.GetComponent[Layout](s.scene, sb.Bar)
	l.Width, l.Height = 1, 1
	l.IgnoreEvents = true
}

// barTravel maps a step in [0,1] to the anchor coordinate of the bar
// center, keeping half a bar of clearance at both ends of the track.
func barTravel(step, halfBar float32) float32 {
	return step*((1-halfBar)-halfBar) + halfBar
}

func (s *System) updateScrollbar(e scene.Entity, sb *Scrollbar, l *Layout) {
	s.createScrollbarObjects(e, sb)

	sb.BarSize = clamp01(sb.BarSize)
	sb.Step = clamp01(sb.Step)

	var track float32
	if sb.Type == ScrollbarVertical {
		track = l.Height
	} else {
		track = l.Width
	}
	barSizePixel := track * sb.BarSize
	halfBar := ratio(barSizePixel/2, track)

	bar := scene.GetComponent[Layout](s.scene, sb.Bar)
	if bar.Width != barSizePixel || bar.Height != barSizePixel {
		bar.Width, bar.Height = barSizePixel, barSizePixel
		bar.NeedUpdateSizes = true
	}

	// The bar is centered on pos and stays inside the track.
	pos := barTravel(sb.Step, halfBar)
	center := track * pos
	lo := max(-barSizePixel/2, -center)
	hi := min(barSizePixel/2, track-center)
	if sb.Type == ScrollbarVertical {
		bar.AnchorPointLeft, bar.AnchorPointTop = 0, pos
		bar.AnchorPointRight, bar.AnchorPointBottom = 1, pos
		bar.AnchorOffsetLeft, bar.AnchorOffsetTop = 0, lo
		bar.AnchorOffsetRight, bar.AnchorOffsetBottom = 0, hi
	} else {
		bar.AnchorPointLeft, bar.AnchorPointTop = pos, 0
		bar.AnchorPointRight, bar.AnchorPointBottom = pos, 1
		bar.AnchorOffsetLeft, bar.AnchorOffsetTop = lo, 0
		bar.AnchorOffsetRight, bar.AnchorOffsetBottom = hi, 0
	}
	bar.AnchorPreset = AnchorNone
	bar.UsingAnchors = true

	if barUI := scene.GetComponent[UIComponent](s.scene, sb.Bar); !sb.BarTexture.IsZero() && barUI.Texture != sb.BarTexture {
		barUI.Texture = sb.BarTexture
		barUI.NeedUpdateTexture = true
	}
}

func (s *System) destroyScrollbar(sb *Scrollbar) {
	sb.NeedUpdateScrollbar = true
	if sb.Bar != scene.NullEntity {
		s.scene.DestroyEntity(sb.Bar)
		sb.Bar = scene.NullEntity
	}
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}
