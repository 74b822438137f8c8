package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten"
)

// Nine draws a nine-patch: corners keep their size, edges and centre stretch.
type Nine struct {
	images              *ebiten.Image
	alpha               float64
	R, G, B, Scale      float64
	positions           [4][2]int
	x, y, width, height int
	scaleCenterWidth    float64
	scaleCenterHeight   float64
	targetPositions     [4][2]float64
}

// newFrame builds the banner frame from a 3x3 source: a light border pixel
// ring around a dark centre pixel.
func newFrame(scale float64) (*Nine, error) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			src.Set(x, y, color.RGBA{0xee, 0xee, 0xee, 0xff})
		}
	}
	src.Set(1, 1, color.RGBA{0x22, 0x22, 0x22, 0xff})
	img, err := ebiten.NewImageFromImage(src, ebiten.FilterNearest)
	if err != nil {
		return nil, err
	}
	return &Nine{
		images: img,
		R:      1, G: 1, B: 1, Scale: scale,
		positions: [4][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 3}},
	}, nil
}

func (n *Nine) SetAlpha(alpha float64) {
	n.alpha = alpha
}

func (n *Nine) SetPosition(x, y int) {
	n.x = x
	n.y = y
	n.SetSize(n.width, n.height)
}

func (n *Nine) SetSize(width, height int) {
	n.width = width
	n.height = height
	n.targetPositions[0][0] = float64(n.x)
	n.targetPositions[0][1] = float64(n.y)

	n.targetPositions[1][0] = float64(n.x) + n.Scale*float64(n.positions[1][0])
	n.targetPositions[1][1] = float64(n.y) + n.Scale*float64(n.positions[1][1])

	n.targetPositions[2][0] = float64(n.x+n.width) - n.Scale*float64(n.positions[3][0]-n.positions[2][0])
	n.targetPositions[2][1] = float64(n.y+n.height) - n.Scale*float64(n.positions[3][1]-n.positions[2][1])

	innerWidth := n.targetPositions[2][0] - n.targetPositions[1][0]
	innerHigh := n.targetPositions[2][1] - n.targetPositions[1][1]

	n.scaleCenterWidth = float64(innerWidth) / float64(n.positions[2][0]-n.positions[1][0])
	n.scaleCenterHeight = float64(innerHigh) / float64(n.positions[2][1]-n.positions[1][1])

}

func (n *Nine) Draw(screen *ebiten.Image) {
	for i := 0; i < 3; i++ {
		sx := n.Scale
		if i == 1 {
			sx = n.scaleCenterWidth
		}
		for j := 0; j < 3; j++ {
			sy := n.Scale
			if j == 1 {
				sy = n.scaleCenterHeight
			}
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(sx, sy)
			op.GeoM.Translate(n.targetPositions[i][0], n.targetPositions[j][1])
			op.ColorM.Scale(n.R, n.G, n.B, n.alpha)
			patch := image.Rect(n.positions[i][0], n.positions[j][1], n.positions[i+1][0], n.positions[j+1][1])
			screen.DrawImage(n.images.SubImage(patch).(*ebiten.Image), op)
		}
	}
}
