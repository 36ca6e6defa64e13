package svgenc

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vovakirdan/starshot/internal/anim"
	"github.com/vovakirdan/starshot/internal/config"
	"github.com/vovakirdan/starshot/internal/game"
)

// Symbol ids reserved in <defs>; compact class and template names skip
// them so href targets stay unambiguous.
var reservedSymbolIDs = map[string]bool{"b": true, "r": true, "s": true, "e": true}

// Encode converts a frame sequence into a minified animated SVG document.
//
// Pipeline: build reusable symbol and paint palettes, emit per-entity
// animation tracks (stars, enemies, boss, explosions, bullets, ship), then
// alias repeated attribute values through XML entities. An empty frame
// slice encodes to empty bytes; mismatched frame dimensions are an error.
func Encode(frames []anim.Frame, frameDurationMs int, theme config.ThemeConfig) ([]byte, error) {
	if len(frames) == 0 {
		return []byte{}, nil
	}
	width, height := frames[0].Width, frames[0].Height
	for i, frame := range frames[1:] {
		if frame.Width != width || frame.Height != height {
			return nil, fmt.Errorf("svgenc: frame %d is %dx%d, want %dx%d", i+1, frame.Width, frame.Height, width, height)
		}
	}

	e := &encoder{
		frames:  frames,
		theme:   theme,
		totalMs: max(1, len(frames)*frameDurationMs),
		width:   width,
		height:  height,
	}
	return e.encode(), nil
}

type encoder struct {
	frames  []anim.Frame
	theme   config.ThemeConfig
	totalMs int
	width   int
	height  int
}

func (e *encoder) encode() []byte {
	starDefs, starSymbolIDs := e.starTemplateDefs()
	fillCounts := e.collectEnemyFillUsage()
	strokeCounts := e.collectExplosionStrokeUsage()
	fillPalette, strokePalette := buildPaletteClassMaps(fillCounts, strokeCounts)
	paletteCSS := paletteStyle(fillPalette, strokePalette)

	enemySize := e.theme.CellSize + 1
	parts := []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
			e.width, e.height, e.width, e.height),
		"<defs>",
	}
	if paletteCSS != "" {
		parts = append(parts, "<style>"+paletteCSS+"</style>")
	}
	parts = append(parts,
		`<g id="b">`+strings.Join(bulletShapeElements(e.theme, e.theme.Bullet), "")+"</g>")
	if e.hasBossBullets() {
		parts = append(parts,
			`<g id="r">`+strings.Join(bulletShapeElements(e.theme, e.theme.BossBullet), "")+"</g>")
	}
	parts = append(parts,
		`<g id="s" shape-rendering="crispEdges" fill="`+hexColor(e.theme.Ship)+`">`+
			strings.Join(shipSymbolElements(e.theme), "")+"</g>",
		fmt.Sprintf(`<rect id="e" width="%d" height="%d" rx="2" ry="2"/>`, enemySize, enemySize),
	)
	parts = append(parts, starDefs...)
	parts = append(parts, "</defs>", `<g shape-rendering="crispEdges">`)

	parts = append(parts,
		fmt.Sprintf(`<rect width="%d" height="%d" fill="%s"/>`, e.width, e.height, hexColor(e.theme.Background)))
	parts = append(parts, e.starElements(starSymbolIDs)...)
	parts = append(parts, e.enemyElements(fillPalette)...)
	if boss := e.bossElement(fillPalette); boss != "" {
		parts = append(parts, boss)
	}
	parts = append(parts, e.explosionElements(strokePalette)...)
	parts = append(parts, e.bulletElements()...)
	parts = append(parts, e.shipElement())

	parts = append(parts, "</g>")
	if e.frames[0].Watermark != "" {
		parts = append(parts, e.watermarkElement())
	}
	parts = append(parts, "</svg>")

	return []byte(Minify(strings.Join(parts, "")))
}

func (e *encoder) frameTimes() []int {
	times := make([]int, len(e.frames))
	for i, f := range e.frames {
		times[i] = f.TimeMs
	}
	return times
}

// ---- stars ----

type starKey struct {
	size int
	fill string
}

func (e *encoder) starTemplateDefs() ([]string, map[starKey]string) {
	counts := make(map[starKey]int)
	for _, frame := range e.frames {
		for _, star := range frame.Stars {
			counts[starKey{size: star.Size, fill: grayHex(star.Brightness)}]++
		}
	}

	ids := assignCompactNames(counts, func(k starKey) string {
		return fmt.Sprintf("%d|%s", k.size, k.fill)
	}, reservedSymbolIDs)

	type def struct{ id, markup string }
	defs := make([]def, 0, len(ids))
	for key, id := range ids {
		defs = append(defs, def{
			id:     id,
			markup: fmt.Sprintf(`<rect id="%s" width="%d" height="%d" fill="%s"/>`, id, key.size, key.size, key.fill),
		})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].id < defs[j].id })
	out := make([]string, len(defs))
	for i, d := range defs {
		out[i] = d.markup
	}
	return out, ids
}

type starSample struct {
	timeMs     int
	x, y       float64
	size       int
	brightness float64
}

func (e *encoder) starElements(symbolIDs map[starKey]string) []string {
	tracks := make(map[int][]starSample)
	for _, frame := range e.frames {
		for _, star := range frame.Stars {
			x, y := e.theme.CellPosition(star.X, star.Y)
			tracks[star.ID] = append(tracks[star.ID], starSample{
				timeMs: frame.TimeMs, x: x, y: y, size: star.Size, brightness: star.Brightness,
			})
		}
	}

	starIDs := make([]int, 0, len(tracks))
	for id := range tracks {
		starIDs = append(starIDs, id)
	}
	sort.Ints(starIDs)

	var elements []string
	for _, id := range starIDs {
		if element := e.renderStarTrack(tracks[id], symbolIDs); element != "" {
			elements = append(elements, element)
		}
	}
	return elements
}

func (e *encoder) renderStarTrack(samples []starSample, symbolIDs map[starKey]string) string {
	if len(samples) == 0 {
		return ""
	}
	symbolID, ok := symbolIDs[starKey{size: samples[0].size, fill: grayHex(samples[0].brightness)}]
	if !ok {
		return ""
	}

	globalTimes := make([]int, len(samples))
	globalPoints := make([]point, len(samples))
	for i, s := range samples {
		globalTimes[i] = s.timeMs
		globalPoints[i] = point{X: s.x, Y: s.y}
	}

	wrapIndices := starWrapIndices(globalPoints)
	forced := forcedIndicesForWraps(wrapIndices, len(globalPoints))
	points, times := compressPointsForced(globalPoints, globalTimes, forced, 1e-6)
	times, points = padTrack(times, points, e.totalMs)

	translateValues := make([]string, len(points))
	for i, p := range points {
		translateValues[i] = numStep(p.X, 0.01) + " " + numStep(p.Y, 0.01)
	}
	ktAttr := keyTimesAttr(times, e.totalMs)

	baseGroup := fmt.Sprintf(
		`<g transform="translate(%s %s)"><use href="#%s"/>`+
			`<animateTransform attributeName="transform" type="translate" values="%s" %s dur="%dms" repeatCount="indefinite"/>`,
		numStep(points[0].X, 0.01), numStep(points[0].Y, 0.01), symbolID,
		strings.Join(translateValues, ";"), ktAttr, e.totalMs)
	if len(wrapIndices) == 0 {
		return baseGroup + "</g>"
	}

	visTimes, visValues := e.starVisibilityTrack(globalTimes, wrapIndices)
	visText := make([]string, len(visValues))
	for i, v := range visValues {
		visText[i] = num(v)
	}
	return fmt.Sprintf(
		`<g opacity="%s" transform="translate(%s %s)"><use href="#%s"/>`+
			`<animateTransform attributeName="transform" type="translate" values="%s" %s dur="%dms" repeatCount="indefinite"/>`+
			`<animate attributeName="opacity" values="%s" %s dur="%dms" repeatCount="indefinite" calcMode="discrete"/></g>`,
		num(visValues[0]), numStep(points[0].X, 0.01), numStep(points[0].Y, 0.01), symbolID,
		strings.Join(translateValues, ";"), ktAttr, e.totalMs,
		strings.Join(visText, ";"), keyTimesAttr(visTimes, e.totalMs), e.totalMs)
}

// starWrapIndices finds the samples where a star jumped from the bottom
// back to the top so those can be masked instead of interpolated.
func starWrapIndices(points []point) []int {
	var wraps []int
	for i := 1; i < len(points); i++ {
		if points[i].Y < points[i-1].Y-0.5 {
			wraps = append(wraps, i)
		}
	}
	return wraps
}

func forcedIndicesForWraps(wrapIndices []int, pointCount int) map[int]bool {
	forced := map[int]bool{0: true, pointCount - 1: true}
	for _, idx := range wrapIndices {
		forced[idx-1] = true
		forced[idx] = true
	}
	return forced
}

// starVisibilityTrack hides the star for the sample interval spanning each
// wrap jump.
func (e *encoder) starVisibilityTrack(globalTimes []int, wrapIndices []int) ([]int, []float64) {
	type event struct {
		timeMs int
		value  float64
	}
	events := []event{{0, 1}, {e.totalMs, 1}}
	for _, idx := range wrapIndices {
		tPrev := globalTimes[idx-1]
		tCurr := globalTimes[idx]
		offStart := min(e.totalMs, max(0, tPrev+1))
		offEnd := min(e.totalMs, max(offStart, tCurr))
		onTime := min(e.totalMs, offEnd+1)
		events = append(events,
			event{max(0, tPrev), 1},
			event{offStart, 0},
			event{offEnd, 0},
			event{onTime, 1},
		)
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].timeMs < events[j].timeMs })

	times := make([]int, len(events))
	values := make([]float64, len(events))
	for i, ev := range events {
		times[i] = ev.timeMs
		values[i] = ev.value
	}
	times, values = compressScalarTrack(times, values, 1e-9)
	return padTrack(times, values, e.totalMs)
}

// ---- enemies ----

const healthAbsent = -1

func (e *encoder) enemyHealthByFrame() []map[string]int {
	out := make([]map[string]int, len(e.frames))
	for i, frame := range e.frames {
		m := make(map[string]int, len(frame.Enemies))
		for _, enemy := range frame.Enemies {
			m[enemy.ID] = enemy.Health
		}
		out[i] = m
	}
	return out
}

func (e *encoder) healthSeries(healthByFrame []map[string]int, id string) []int {
	series := make([]int, len(healthByFrame))
	for i, m := range healthByFrame {
		if h, ok := m[id]; ok {
			series[i] = h
		} else {
			series[i] = healthAbsent
		}
	}
	return series
}

// fillColorSequence lists the enemy's fill color at spawn plus one entry
// per observed health change.
func (e *encoder) fillColorSequence(series []int) []string {
	initial := healthAbsent
	for _, h := range series {
		if h != healthAbsent {
			initial = h
			break
		}
	}
	if initial == healthAbsent {
		return nil
	}

	colors := []string{hexColor(e.theme.EnemyColor(initial))}
	previous := initial
	for _, health := range series {
		if health == healthAbsent {
			previous = healthAbsent
			continue
		}
		if previous == healthAbsent {
			previous = health
			continue
		}
		if health != previous {
			colors = append(colors, hexColor(e.theme.EnemyColor(health)))
			previous = health
		}
	}
	return colors
}

func (e *encoder) collectEnemyFillUsage() map[string]int {
	healthByFrame := e.enemyHealthByFrame()
	counts := make(map[string]int)
	for _, enemy := range e.frames[0].Enemies {
		colors := e.fillColorSequence(e.healthSeries(healthByFrame, enemy.ID))
		if len(colors) == 0 {
			continue
		}
		counts[colors[0]]++
		if len(colors) > 1 {
			for _, c := range colors {
				counts[c]++
			}
		}
	}
	return counts
}

// enemyElements serializes the static enemy field twice, grouped by column
// and by row, and keeps whichever markup is smaller.
func (e *encoder) enemyElements(fillPalette map[string]string) []string {
	byColumn := e.groupedEnemyElements(fillPalette, true)
	byRow := e.groupedEnemyElements(fillPalette, false)
	if totalLen(byRow) < totalLen(byColumn) {
		return byRow
	}
	return byColumn
}

func totalLen(parts []string) int {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	return n
}

func (e *encoder) groupedEnemyElements(fillPalette map[string]string, byColumn bool) []string {
	healthByFrame := e.enemyHealthByFrame()

	type cell struct {
		id   string
		x, y int
	}
	groups := make(map[int][]cell)
	for _, enemy := range e.frames[0].Enemies {
		if enemy.Kind == game.EnemyBoss {
			continue
		}
		c := cell{id: enemy.ID, x: int(enemy.X), y: enemy.Y}
		key := c.x
		if !byColumn {
			key = c.y
		}
		groups[key] = append(groups[key], c)
	}

	keys := make([]int, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Ints(keys)

	var elements []string
	for _, key := range keys {
		cells := groups[key]
		sort.Slice(cells, func(i, j int) bool { return cells[i].id < cells[j].id })

		var groupParts []string
		for _, c := range cells {
			series := e.healthSeries(healthByFrame, c.id)
			markup := e.enemyCellMarkup(series, c.x, c.y, byColumn, fillPalette)
			if markup != "" {
				groupParts = append(groupParts, markup)
			}
		}
		if len(groupParts) == 0 {
			continue
		}

		var transform string
		if byColumn {
			x, _ := e.theme.CellPosition(float64(key), 0)
			transform = fmt.Sprintf("translate(%s 0)", num(x))
		} else {
			_, y := e.theme.CellPosition(0, float64(key))
			transform = fmt.Sprintf("translate(0 %s)", num(y))
		}
		elements = append(elements, `<g transform="`+transform+`">`+strings.Join(groupParts, "")+"</g>")
	}
	return elements
}

func (e *encoder) enemyCellMarkup(series []int, xCell, yCell int, byColumn bool, fillPalette map[string]string) string {
	initial := healthAbsent
	for _, h := range series {
		if h != healthAbsent {
			initial = h
			break
		}
	}
	if initial == healthAbsent {
		return ""
	}

	fillTimes := []int{0}
	fillClasses := []string{fillPalette[hexColor(e.theme.EnemyColor(initial))]}
	previous := initial
	for i, health := range series {
		if health == healthAbsent {
			previous = healthAbsent
			continue
		}
		if previous == healthAbsent {
			previous = health
			continue
		}
		if health != previous {
			fillTimes = append(fillTimes, e.frames[i].TimeMs)
			fillClasses = append(fillClasses, fillPalette[hexColor(e.theme.EnemyColor(health))])
			previous = health
		}
	}
	fillTimes, fillClasses = compressDiscreteTrack(fillTimes, fillClasses)
	fillTimes, fillClasses = padTrack(fillTimes, fillClasses, e.totalMs)

	var offsetAttr string
	if byColumn {
		_, y := e.theme.CellPosition(0, float64(yCell))
		offsetAttr = fmt.Sprintf(`y="%s"`, num(y))
	} else {
		x, _ := e.theme.CellPosition(float64(xCell), 0)
		offsetAttr = fmt.Sprintf(`x="%s"`, num(x))
	}

	parts := []string{fmt.Sprintf(`<use href="#e" %s class="%s">`, offsetAttr, fillClasses[0])}
	if hasDistinctStrings(fillClasses) {
		parts = append(parts, fmt.Sprintf(
			`<animate attributeName="class" values="%s" %s dur="%dms" repeatCount="indefinite" calcMode="discrete"/>`,
			strings.Join(fillClasses, ";"), keyTimesAttr(fillTimes, e.totalMs), e.totalMs))
	}

	presenceTimes := e.frameTimes()
	presenceValues := make([]float64, len(series))
	for i, h := range series {
		if h != healthAbsent {
			presenceValues[i] = 1
		}
	}
	presenceTimes, presenceValues = compressScalarTrack(presenceTimes, presenceValues, 1e-9)
	presenceTimes, presenceValues = padTrack(presenceTimes, presenceValues, e.totalMs)
	anyHidden := false
	for _, v := range presenceValues {
		if v < 0.5 {
			anyHidden = true
			break
		}
	}
	if anyHidden {
		presenceText := make([]string, len(presenceValues))
		for i, v := range presenceValues {
			if v >= 0.5 {
				presenceText[i] = "1"
			} else {
				presenceText[i] = "0"
			}
		}
		parts = append(parts, fmt.Sprintf(
			`<animate attributeName="opacity" values="%s" %s dur="%dms" repeatCount="indefinite" calcMode="discrete"/>`,
			strings.Join(presenceText, ";"), keyTimesAttr(presenceTimes, e.totalMs), e.totalMs))
	}
	parts = append(parts, "</use>")
	return strings.Join(parts, "")
}

// bossElement renders the patrolling boss as its own animated rect: the
// grouped enemy layout cannot express horizontal motion.
func (e *encoder) bossElement(fillPalette map[string]string) string {
	var boss *anim.EnemyState
	for i := range e.frames[0].Enemies {
		if e.frames[0].Enemies[i].Kind == game.EnemyBoss {
			boss = &e.frames[0].Enemies[i]
			break
		}
	}
	if boss == nil {
		return ""
	}
	id := boss.ID

	positions := make([]point, len(e.frames))
	presence := make([]float64, len(e.frames))
	healths := make([]int, len(e.frames))
	lastPoint := pointOf(e.theme.CellPosition(boss.X, float64(boss.Y)))
	lastHealth := boss.Health
	for i, frame := range e.frames {
		found := false
		for _, enemy := range frame.Enemies {
			if enemy.ID == id {
				lastPoint = pointOf(e.theme.CellPosition(enemy.X, float64(enemy.Y)))
				lastHealth = enemy.Health
				presence[i] = 1
				found = true
				break
			}
		}
		if !found {
			presence[i] = 0
		}
		positions[i] = lastPoint
		healths[i] = lastHealth
	}

	times := e.frameTimes()
	forced := transitionForcedIndices(presence, 0.5)
	trackPoints, trackTimes := compressPointsForced(positions, times, forced, 1e-6)
	trackTimes, trackPoints = padTrack(trackTimes, trackPoints, e.totalMs)

	opacityTimes, opacityValues := compressScalarTrack(times, presence, 1e-9)
	opacityTimes, opacityValues = padTrack(opacityTimes, opacityValues, e.totalMs)

	classTimes := make([]int, len(healths))
	classValues := make([]string, len(healths))
	for i, h := range healths {
		classTimes[i] = times[i]
		classValues[i] = fillPalette[hexColor(e.theme.EnemyColor(h))]
	}
	classTimes, classValues = compressDiscreteTrack(classTimes, classValues)
	classTimes, classValues = padTrack(classTimes, classValues, e.totalMs)

	w := boss.WidthCells * e.theme.CellSize
	h := boss.HeightCells * e.theme.CellSize

	var sb strings.Builder
	fmt.Fprintf(&sb, `<g opacity="%s" transform="translate(%s %s)">`,
		num(opacityValues[0]), num(trackPoints[0].X), num(trackPoints[0].Y))
	sb.WriteString(pointAnimateTransform(trackPoints, trackTimes, e.totalMs, false))
	opacityText := make([]string, len(opacityValues))
	for i, v := range opacityValues {
		opacityText[i] = num(v)
	}
	fmt.Fprintf(&sb,
		`<animate attributeName="opacity" values="%s" %s dur="%dms" repeatCount="indefinite" calcMode="discrete"/>`,
		strings.Join(opacityText, ";"), keyTimesAttr(opacityTimes, e.totalMs), e.totalMs)
	fmt.Fprintf(&sb, `<rect width="%d" height="%d" rx="4" ry="4" class="%s">`, w, h, classValues[0])
	if hasDistinctStrings(classValues) {
		fmt.Fprintf(&sb,
			`<animate attributeName="class" values="%s" %s dur="%dms" repeatCount="indefinite" calcMode="discrete"/>`,
			strings.Join(classValues, ";"), keyTimesAttr(classTimes, e.totalMs), e.totalMs)
	}
	sb.WriteString("</rect></g>")
	return sb.String()
}

func pointOf(x, y float64) point {
	return point{X: x, Y: y}
}

// ---- explosions ----

type explosionSamples struct {
	path        []string
	center      []point
	progress    []float64
	strokeWidth []float64
	strokeColor []string
	opacity     []float64
}

func explosionFade(progress float64) float64 {
	return float64(int(255*max(0.0, 1.0-progress))) / 255.0
}

func explosionParticleSize(progress float64) int {
	return int((1-progress*0.5)*3) + 1
}

func explosionPathData(ex anim.ExplosionState) string {
	type cell struct{ x, y int }
	used := make(map[cell]bool)
	var sb strings.Builder
	for _, angle := range ex.ParticleAngles {
		p := cell{
			x: int(math.Round(ex.MaxRadius * math.Cos(angle))),
			y: int(math.Round(ex.MaxRadius * math.Sin(angle))),
		}
		if used[p] {
			continue
		}
		used[p] = true
		fmt.Fprintf(&sb, "M%d %dh0", p.x, p.y)
	}
	return sb.String()
}

func (e *encoder) explosionCenter(ex anim.ExplosionState) point {
	x, y := e.theme.CellPosition(ex.X, ex.Y)
	half := float64(e.theme.CellSize) / 2
	return point{
		X: math.Round(x + half),
		Y: math.Round(y + half),
	}
}

func (e *encoder) explosionSlotTracks() [][]*anim.ExplosionState {
	frameMaps := make([]map[int]anim.ExplosionState, len(e.frames))
	for i, frame := range e.frames {
		m := make(map[int]anim.ExplosionState, len(frame.Explosions))
		for _, ex := range frame.Explosions {
			m[ex.ID] = ex
		}
		frameMaps[i] = m
	}
	return buildSlotTracks(frameMaps, true)
}

// sampleExplosionTrack carries the latest path, position and styling while
// the slot is active; when inactive the geometry holds still and only
// opacity drops to zero.
func (e *encoder) sampleExplosionTrack(slotTrack []*anim.ExplosionState) *explosionSamples {
	var firstActive *anim.ExplosionState
	for _, ex := range slotTrack {
		if ex != nil {
			firstActive = ex
			break
		}
	}
	if firstActive == nil {
		return nil
	}
	currentPath := explosionPathData(*firstActive)
	if currentPath == "" {
		return nil
	}
	currentProgress := firstActive.Progress
	currentWidth := float64(explosionParticleSize(currentProgress)*2 + 1)
	currentColor := blendHex(e.theme.Bullet, e.theme.Background, explosionFade(currentProgress))
	currentCenter := e.explosionCenter(*firstActive)

	samples := &explosionSamples{}
	for _, ex := range slotTrack {
		if ex != nil {
			if path := explosionPathData(*ex); path != "" {
				currentPath = path
			}
			currentProgress = ex.Progress
			currentWidth = float64(explosionParticleSize(currentProgress)*2 + 1)
			currentColor = blendHex(e.theme.Bullet, e.theme.Background, explosionFade(currentProgress))
			currentCenter = e.explosionCenter(*ex)
			samples.opacity = append(samples.opacity, 1)
		} else {
			samples.opacity = append(samples.opacity, 0)
		}
		samples.path = append(samples.path, currentPath)
		samples.center = append(samples.center, currentCenter)
		samples.progress = append(samples.progress, currentProgress)
		samples.strokeWidth = append(samples.strokeWidth, currentWidth)
		samples.strokeColor = append(samples.strokeColor, currentColor)
	}
	return samples
}

// extendToLoopEnd duplicates the final sample at the loop boundary.
func (e *encoder) extendToLoopEnd(samples *explosionSamples) []int {
	times := append(e.frameTimes(), e.totalMs)
	samples.path = append(samples.path, samples.path[len(samples.path)-1])
	samples.center = append(samples.center, samples.center[len(samples.center)-1])
	samples.progress = append(samples.progress, samples.progress[len(samples.progress)-1])
	samples.strokeWidth = append(samples.strokeWidth, samples.strokeWidth[len(samples.strokeWidth)-1])
	samples.strokeColor = append(samples.strokeColor, samples.strokeColor[len(samples.strokeColor)-1])
	samples.opacity = append(samples.opacity, samples.opacity[len(samples.opacity)-1])
	return times
}

func (e *encoder) collectExplosionStrokeUsage() map[string]int {
	counts := make(map[string]int)
	for _, slotTrack := range e.explosionSlotTracks() {
		samples := e.sampleExplosionTrack(slotTrack)
		if samples == nil {
			continue
		}
		times := e.extendToLoopEnd(samples)
		colorTimes, colorValues := compressDiscreteTrack(times, samples.strokeColor)
		_, colorValues = padTrack(colorTimes, colorValues, e.totalMs)

		counts[colorValues[0]]++
		for _, c := range colorValues {
			counts[c]++
		}
	}
	return counts
}

func (e *encoder) explosionElements(strokePalette map[string]string) []string {
	var elements []string
	for _, slotTrack := range e.explosionSlotTracks() {
		samples := e.sampleExplosionTrack(slotTrack)
		if samples == nil {
			continue
		}
		times := e.extendToLoopEnd(samples)

		dTimes, dValues := compressDiscreteTrack(times, samples.path)
		dTimes, dValues = padTrack(dTimes, dValues, e.totalMs)

		centerTimes, centerValues := compressDiscretePoints(times, samples.center)
		centerTimes, centerValues = padTrack(centerTimes, centerValues, e.totalMs)

		forced := transitionForcedIndices(samples.opacity, 0.5)
		progressTimes, progressValues := compressLinearScalarTrack(times, samples.progress, forced, 1e-12)
		progressTimes, progressValues = padTrack(progressTimes, progressValues, e.totalMs)

		widthTimes, widthValues := compressScalarTrack(times, samples.strokeWidth, 1e-9)
		widthTimes, widthValues = padTrack(widthTimes, widthValues, e.totalMs)

		colorTimes, colorValues := compressDiscreteTrack(times, samples.strokeColor)
		colorTimes, colorValues = padTrack(colorTimes, colorValues, e.totalMs)

		opacityTimes, opacityValues := compressScalarTrack(times, samples.opacity, 1e-9)
		opacityTimes, opacityValues = padTrack(opacityTimes, opacityValues, e.totalMs)

		strokeClasses := make([]string, len(colorValues))
		for i, c := range colorValues {
			strokeClasses[i] = strokePalette[c]
		}

		pathMarkup := e.explosionPathMarkup(
			dValues, dTimes,
			progressValues, progressTimes,
			widthValues, widthTimes,
			strokeClasses, colorTimes,
		)

		opacityText := make([]string, len(opacityValues))
		for i, v := range opacityValues {
			opacityText[i] = num(v)
		}
		elements = append(elements, fmt.Sprintf(
			`<g opacity="%s" transform="translate(%s %s)">%s`+
				`<animate attributeName="opacity" values="%s" %s dur="%dms" repeatCount="indefinite" calcMode="discrete"/>%s</g>`,
			num(opacityValues[0]), num(centerValues[0].X), num(centerValues[0].Y),
			pointAnimateTransform(centerValues, centerTimes, e.totalMs, true),
			strings.Join(opacityText, ";"), keyTimesAttr(opacityTimes, e.totalMs), e.totalMs,
			pathMarkup))
	}
	return elements
}

func (e *encoder) explosionPathMarkup(
	dValues []string, dTimes []int,
	progressValues []float64, progressTimes []int,
	widthValues []float64, widthTimes []int,
	strokeClasses []string, strokeTimes []int,
) string {
	var sb strings.Builder
	fmt.Fprintf(&sb,
		`<path d="%s" fill="none" class="%s" stroke-width="%s" stroke-linecap="square" `+
			`vector-effect="non-scaling-stroke" transform="scale(%s)">`,
		dValues[0], strokeClasses[0], num(widthValues[0]), num(progressValues[0]))
	if len(dValues) > 1 {
		fmt.Fprintf(&sb,
			`<animate attributeName="d" values="%s" %s dur="%dms" repeatCount="indefinite" calcMode="discrete"/>`,
			strings.Join(dValues, ";"), keyTimesAttr(dTimes, e.totalMs), e.totalMs)
	}
	sb.WriteString(scalarAnimateTransform("scale", progressValues, progressTimes, e.totalMs, false))

	widthText := make([]string, len(widthValues))
	for i, v := range widthValues {
		widthText[i] = num(v)
	}
	fmt.Fprintf(&sb,
		`<animate attributeName="stroke-width" values="%s" %s dur="%dms" repeatCount="indefinite" calcMode="discrete"/>`,
		strings.Join(widthText, ";"), keyTimesAttr(widthTimes, e.totalMs), e.totalMs)
	fmt.Fprintf(&sb,
		`<animate attributeName="class" values="%s" %s dur="%dms" repeatCount="indefinite" calcMode="discrete"/>`,
		strings.Join(strokeClasses, ";"), keyTimesAttr(strokeTimes, e.totalMs), e.totalMs)
	sb.WriteString("</path>")
	return sb.String()
}

// ---- bullets ----

func (e *encoder) hasBossBullets() bool {
	for _, frame := range e.frames {
		for _, b := range frame.Bullets {
			if b.Kind == game.BulletBoss {
				return true
			}
		}
	}
	return false
}

func (e *encoder) bulletElements() []string {
	elements := e.bulletKindElements(game.BulletShip, "b")
	return append(elements, e.bulletKindElements(game.BulletBoss, "r")...)
}

func (e *encoder) bulletKindElements(kind game.BulletKind, symbolID string) []string {
	frameMaps := make([]map[int]anim.BulletState, len(e.frames))
	for i, frame := range e.frames {
		m := make(map[int]anim.BulletState)
		for _, b := range frame.Bullets {
			if b.Kind == kind {
				m[b.ID] = b
			}
		}
		frameMaps[i] = m
	}
	// Deferred slot reuse: position tracks interpolate, so a slot must not
	// hand off to a new bullet within the frame its old one disappears.
	slotTracks := buildSlotTracks(frameMaps, false)
	frameTimes := e.frameTimes()
	half := float64(e.theme.CellSize) / 2

	var elements []string
	for _, slotTrack := range slotTracks {
		var firstActive *anim.BulletState
		for _, b := range slotTrack {
			if b != nil {
				firstActive = b
				break
			}
		}
		if firstActive == nil {
			continue
		}

		centerOf := func(b anim.BulletState) point {
			x, y := e.theme.CellPosition(b.X, b.Y)
			return point{X: math.Round(x + half), Y: math.Round(y + half)}
		}
		lastPoint := centerOf(*firstActive)

		positions := make([]point, 0, len(slotTrack)+1)
		opacity := make([]float64, 0, len(slotTrack)+1)
		for _, b := range slotTrack {
			if b != nil {
				lastPoint = centerOf(*b)
				opacity = append(opacity, 1)
			} else {
				opacity = append(opacity, 0)
			}
			positions = append(positions, lastPoint)
		}

		times := append(append([]int(nil), frameTimes...), e.totalMs)
		positions = append(positions, positions[len(positions)-1])
		opacity = append(opacity, opacity[len(opacity)-1])

		forced := transitionForcedIndices(opacity, 0.5)
		trackPoints, trackTimes := compressPointsForced(positions, times, forced, 1e-6)
		trackTimes, trackPoints = padTrack(trackTimes, trackPoints, e.totalMs)

		opacityTimes, opacityValues := compressScalarTrack(times, opacity, 1e-9)
		opacityTimes, opacityValues = padTrack(opacityTimes, opacityValues, e.totalMs)

		opacityText := make([]string, len(opacityValues))
		for i, v := range opacityValues {
			opacityText[i] = num(v)
		}
		elements = append(elements, fmt.Sprintf(
			`<g opacity="%s" transform="translate(%s %s)"><use href="#%s"/>%s`+
				`<animate attributeName="opacity" values="%s" %s dur="%dms" repeatCount="indefinite" calcMode="discrete"/></g>`,
			num(opacityValues[0]), num(trackPoints[0].X), num(trackPoints[0].Y), symbolID,
			pointAnimateTransform(trackPoints, trackTimes, e.totalMs, false),
			strings.Join(opacityText, ";"), keyTimesAttr(opacityTimes, e.totalMs), e.totalMs))
	}
	return elements
}

// bulletShapeElements builds the layered projectile sprite: a fading trail
// behind a bright core, each layer pre-blended against the background.
func bulletShapeElements(theme config.ThemeConfig, bulletColor config.Color) []string {
	step := theme.Step()
	var shapes []string

	for i := 0; i < theme.BulletTrailLength; i++ {
		trailY := float64(i+1) * theme.BulletTrailGap * float64(step)
		fade := float64(i+1) / float64(theme.BulletTrailLength) / 2
		fill := blendHex(bulletColor, theme.Background, fade)
		shapes = append(shapes, centerRect(0, trailY, 0.5, 4.0, fill))
	}

	layers := []struct{ offset, fade float64 }{
		{0.6, 0.3}, {0.4, 0.4}, {0.2, 0.5}, {0.0, 1.0},
	}
	for _, layer := range layers {
		fill := blendHex(bulletColor, theme.Background, layer.fade)
		shapes = append(shapes, centerRect(0, 0, 0.5+layer.offset, 4.0+layer.offset, fill))
	}
	return shapes
}

// centerRect emits a pixel-snapped rect centered on (cx, cy) with
// half-extents (rx, ry).
func centerRect(cx, cy, rx, ry float64, fill string) string {
	left := int(math.Floor(cx - rx))
	top := int(math.Floor(cy - ry))
	right := int(math.Floor(cx + rx))
	bottom := int(math.Floor(cy + ry))
	width := max(1, right-left+1)
	height := max(1, bottom-top+1)
	return fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`,
		left, top, width, height, fill)
}

// ---- ship ----

func (e *encoder) shipCenterX(shipX float64) float64 {
	x, _ := e.theme.CellPosition(shipX, game.ShipRow)
	return x + float64(e.theme.CellSize)/2
}

func (e *encoder) shipElement() string {
	_, yTop := e.theme.CellPosition(0, game.ShipRow)
	times := e.frameTimes()
	xValues := make([]float64, len(e.frames))
	for i, frame := range e.frames {
		xValues[i] = e.shipCenterX(frame.Ship.X)
	}
	times, xValues = compressLinearScalarTrack(times, xValues, nil, 1e-12)
	times, xValues = padTrack(times, xValues, e.totalMs)

	valueText := make([]string, len(xValues))
	for i, v := range xValues {
		valueText[i] = num(v)
	}
	animateX := scalarAnimate("x", strings.Join(valueText, ";"), keyTimesAttr(times, e.totalMs), e.totalMs, false)
	return fmt.Sprintf(`<g transform="translate(0 %s)"><use href="#s" x="%s">%s</use></g>`,
		num(yTop), num(xValues[0]), animateX)
}

// ---- shared animate builders ----

func scalarAnimate(attributeName, values, ktAttr string, totalMs int, discrete bool) string {
	attrs := []string{
		`attributeName="` + attributeName + `"`,
		`values="` + values + `"`,
	}
	if ktAttr != "" {
		attrs = append(attrs, ktAttr)
	}
	attrs = append(attrs, fmt.Sprintf(`dur="%dms"`, totalMs), `repeatCount="indefinite"`)
	if discrete {
		attrs = append(attrs, `calcMode="discrete"`)
	}
	return "<animate " + strings.Join(attrs, " ") + "/>"
}

func scalarAnimateTransform(transformType string, values []float64, times []int, totalMs int, discrete bool) string {
	if !hasDistinctFloats(values, 1e-9) {
		return ""
	}
	valueText := make([]string, len(values))
	for i, v := range values {
		valueText[i] = num(v)
	}
	attrs := []string{
		`attributeName="transform"`,
		`type="` + transformType + `"`,
		`values="` + strings.Join(valueText, ";") + `"`,
	}
	if ktAttr := keyTimesAttr(times, totalMs); ktAttr != "" {
		attrs = append(attrs, ktAttr)
	}
	attrs = append(attrs, fmt.Sprintf(`dur="%dms"`, totalMs), `repeatCount="indefinite"`)
	if discrete {
		attrs = append(attrs, `calcMode="discrete"`)
	}
	return "<animateTransform " + strings.Join(attrs, " ") + "/>"
}

func pointAnimateTransform(points []point, times []int, totalMs int, discrete bool) string {
	if !hasDistinctPoints(points, 1e-9) {
		return ""
	}
	valueText := make([]string, len(points))
	for i, p := range points {
		valueText[i] = num(p.X) + " " + num(p.Y)
	}
	attrs := []string{
		`attributeName="transform"`,
		`type="translate"`,
		`values="` + strings.Join(valueText, ";") + `"`,
	}
	if ktAttr := keyTimesAttr(times, totalMs); ktAttr != "" {
		attrs = append(attrs, ktAttr)
	}
	attrs = append(attrs, fmt.Sprintf(`dur="%dms"`, totalMs), `repeatCount="indefinite"`)
	if discrete {
		attrs = append(attrs, `calcMode="discrete"`)
	}
	return "<animateTransform " + strings.Join(attrs, " ") + "/>"
}

// ---- palette ----

func assignCompactNames[K comparable](counts map[K]int, keyString func(K) string, reserved map[string]bool) map[K]string {
	if len(counts) == 0 {
		return map[K]string{}
	}
	type entry struct {
		key   K
		str   string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for key, count := range counts {
		entries = append(entries, entry{key: key, str: keyString(key), count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].str < entries[j].str
	})

	names := make(map[K]string, len(entries))
	index := 0
	for _, ent := range entries {
		for {
			candidate := compactName(index)
			index++
			if reserved[candidate] {
				continue
			}
			names[ent.key] = candidate
			break
		}
	}
	return names
}

type paintKey struct {
	kind  string // "fill" or "stroke"
	color string
}

// buildPaletteClassMaps assigns one shared compact class namespace to the
// fill and stroke palettes, most used colors first.
func buildPaletteClassMaps(fillCounts, strokeCounts map[string]int) (map[string]string, map[string]string) {
	combined := make(map[paintKey]int, len(fillCounts)+len(strokeCounts))
	for color, count := range fillCounts {
		combined[paintKey{kind: "fill", color: color}] = count
	}
	for color, count := range strokeCounts {
		combined[paintKey{kind: "stroke", color: color}] = count
	}

	names := assignCompactNames(combined, func(k paintKey) string {
		return k.kind + "|" + k.color
	}, nil)

	fillPalette := make(map[string]string, len(fillCounts))
	for color := range fillCounts {
		fillPalette[color] = names[paintKey{kind: "fill", color: color}]
	}
	strokePalette := make(map[string]string, len(strokeCounts))
	for color := range strokeCounts {
		strokePalette[color] = names[paintKey{kind: "stroke", color: color}]
	}
	return fillPalette, strokePalette
}

func paletteStyle(fillPalette, strokePalette map[string]string) string {
	if len(fillPalette) == 0 && len(strokePalette) == 0 {
		return ""
	}
	type rule struct{ class, text string }
	var rules []rule
	for color, class := range fillPalette {
		rules = append(rules, rule{class: class, text: "." + class + "{fill:" + color + "}"})
	}
	for color, class := range strokePalette {
		rules = append(rules, rule{class: class, text: "." + class + "{stroke:" + color + "}"})
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].class < rules[j].class })

	var sb strings.Builder
	for _, r := range rules {
		sb.WriteString(r.text)
	}
	return sb.String()
}

// ---- watermark ----

func (e *encoder) watermarkElement() string {
	return fmt.Sprintf(
		`<text x="%d" y="%d" text-anchor="end" font-family="Aileron, sans-serif" `+
			`font-size="10px" fill="#646464" fill-opacity="%s">%s</text>`,
		e.width-5, e.height-5, num(128.0/255.0), e.frames[0].Watermark)
}
