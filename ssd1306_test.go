package oled

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"testing"
	"time"

	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/BeatGlow/oled/conn"
)

func testDisplay(t *testing.T) (*SSD1306, *i2ctest.Record) {
	t.Helper()
	rec := new(i2ctest.Record)
	d, err := NewSSD1306(NewI2C(conn.NewBuffered(rec), DefaultI2CConfig.Addr), nil)
	if err != nil {
		t.Fatal(err)
	}
	return d, rec
}

func testWrites(ops []i2ctest.IO) [][]byte {
	w := make([][]byte, len(ops))
	for i, op := range ops {
		w[i] = op.W
	}
	return w
}

// checkRefresh verifies ops are a full refresh of pix.
func checkRefresh(t *testing.T, ops []i2ctest.IO, pix []byte) {
	t.Helper()
	if len(ops) != 8*4 {
		t.Fatalf("expected %d transactions for a refresh, got %d", 8*4, len(ops))
	}
	for page := 0; page < 8; page++ {
		group := testWrites(ops[page*4 : page*4+4])
		want := [][]byte{
			{0x80, 0xb0 + byte(page)},
			{0x80, 0x00},
			{0x80, 0x10},
			append([]byte{0x40}, pix[page*128:page*128+128]...),
		}
		for i := range want {
			if !bytes.Equal(group[i], want[i]) {
				t.Errorf("page %d transaction %d: expected % x, got % x", page, i, want[i], group[i])
			}
		}
	}
	for _, op := range ops {
		if op.Addr != 0x3c {
			t.Fatalf("expected address 0x3c, got %#02x", op.Addr)
		}
	}
}

func TestNewSSD1306(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{"nil config", nil, false},
		{"defaults", &Config{}, false},
		{"128x64", &Config{Width: 128, Height: 64}, false},
		{"128x32", &Config{Width: 128, Height: 32}, true},
		{"64x48", &Config{Width: 64, Height: 48}, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(it *testing.T) {
			d, err := NewSSD1306(NewI2C(conn.NewBuffered(new(i2ctest.Record)), 0x3c), test.config)
			if test.wantErr {
				if err == nil {
					it.Error("expected error")
				}
				return
			}
			if err != nil {
				it.Fatal(err)
			}
			if v := len(d.Framebuffer()); v != 1024 {
				it.Errorf("expected framebuffer of 1024 bytes, got %d", v)
			}
			if v := d.String(); v != "SSD1306 OLED 128x64" {
				it.Errorf("unexpected name %q", v)
			}
		})
	}
}

func TestSSD1306Init(t *testing.T) {
	d, rec := testDisplay(t)

	if err := d.Init(context.Background()); err != nil {
		t.Fatal(err)
	}

	want := [][]byte{
		{0x80, 0xae},
		{0x00, 0x20, 0x02},
		{0x80, 0xb0},
		{0x00, 0xa8, 0x3f},
		{0x00, 0xd3, 0x00},
		{0x80, 0x40, 0x80, 0xa0, 0x80, 0xc0},
		{0x00, 0xda, 0x12},
		{0x00, 0x81, 0x7f},
		{0x80, 0xa4, 0x80, 0xa6},
		{0x00, 0xd5, 0x80},
		{0x00, 0xdb, 0x20},
		{0x00, 0xd9, 0x22},
		{0x00, 0x8d, 0x14},
		{0x80, 0xaf},
	}
	if len(rec.Ops) != len(want)+8*4 {
		t.Fatalf("expected %d transactions, got %d", len(want)+8*4, len(rec.Ops))
	}
	for i, w := range testWrites(rec.Ops[:len(want)]) {
		if !bytes.Equal(w, want[i]) {
			t.Errorf("init transaction %d: expected % x, got % x", i, want[i], w)
		}
	}
	checkRefresh(t, rec.Ops[len(want):], make([]byte, 1024))

	if err := d.Init(context.Background()); !errors.Is(err, ErrInitialized) {
		t.Errorf("expected %v on second init, got %v", ErrInitialized, err)
	}
}

func TestSSD1306Refresh(t *testing.T) {
	d, rec := testDisplay(t)

	if err := d.Refresh(context.Background()); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected %v before init, got %v", ErrNotInitialized, err)
	}
	if len(rec.Ops) != 0 {
		t.Fatalf("expected no bus traffic before init, got %d transactions", len(rec.Ops))
	}

	if err := d.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	rec.Ops = nil

	pix := d.Framebuffer()
	for i := range pix {
		pix[i] = byte(i)
	}
	if err := d.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	checkRefresh(t, rec.Ops, pix)
}

func TestSSD1306Clear(t *testing.T) {
	d, rec := testDisplay(t)

	d.SetPixel(10, 10, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	if v := d.Framebuffer()[128+10]; v != 0x04 {
		t.Fatalf("expected pixel (10,10) in byte 138 as 0x04, got %#02x", v)
	}

	d.Clear()
	for i, b := range d.Framebuffer() {
		if b != 0 {
			t.Fatalf("expected cleared framebuffer, byte %d is %#02x", i, b)
		}
	}
	if len(rec.Ops) != 0 {
		t.Errorf("expected clear to stay in memory, got %d transactions", len(rec.Ops))
	}
}

func TestSSD1306Displayer(t *testing.T) {
	d, rec := testDisplay(t)

	if x, y := d.Size(); x != 128 || y != 64 {
		t.Errorf("expected size 128x64, got %dx%d", x, y)
	}
	if err := d.Display(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected %v, got %v", ErrNotInitialized, err)
	}
	_ = d.Init(context.Background())
	rec.Ops = nil
	if err := d.Display(); err != nil {
		t.Fatal(err)
	}
	if len(rec.Ops) != 8*4 {
		t.Errorf("expected a full refresh, got %d transactions", len(rec.Ops))
	}
}

func TestSSD1306Close(t *testing.T) {
	d, rec := testDisplay(t)
	_ = d.Init(context.Background())
	rec.Ops = nil

	if err := d.SetContrast(context.Background(), 0xcf); err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if err := d.Close(); err != nil {
		t.Fatal(err)
	}

	want := [][]byte{
		{0x00, 0x81, 0xcf},
		{0x80, 0xae},
	}
	got := testWrites(rec.Ops)
	if len(got) != len(want) {
		t.Fatalf("expected %d transactions, got % x", len(want), got)
	}
	for i := range want {
		if !bytes.Equal(got[i], want[i]) {
			t.Errorf("transaction %d: expected % x, got % x", i, want[i], got[i])
		}
	}
}

// stalledDevice never finishes clocking out a byte.
type stalledDevice struct {
	*conn.Buffered
}

func (d stalledDevice) Status() conn.Status {
	if s := d.Buffered.Status(); s&conn.ByteTransferred != 0 {
		return s &^ conn.ByteTransferred
	}
	return d.Buffered.Status()
}

func TestStreamPageTimeout(t *testing.T) {
	rec := new(i2ctest.Record)
	c := NewI2C(stalledDevice{conn.NewBuffered(rec)}, 0x3c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := c.StreamPage(ctx, make([]byte, 128))
	if !errors.Is(err, conn.ErrTimeout) {
		t.Fatalf("expected %v, got %v", conn.ErrTimeout, err)
	}

	// The bus is released, with only the control byte clocked out.
	if len(rec.Ops) != 1 || !bytes.Equal(rec.Ops[0].W, []byte{0x40}) {
		t.Errorf("unexpected transactions %+v", rec.Ops)
	}
}

func TestStreamPage(t *testing.T) {
	rec := new(i2ctest.Record)
	c := NewI2C(conn.NewBuffered(rec), 0x3c)

	data := bytes.Repeat([]byte{0xaa}, 128)
	if err := c.StreamPage(context.Background(), data); err != nil {
		t.Fatal(err)
	}
	if err := c.Transact(context.Background(), 0x80, 0xaf); err != nil {
		t.Fatal(err)
	}

	got := testWrites(rec.Ops)
	if len(got) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(got))
	}
	if !bytes.Equal(got[0], append([]byte{0x40}, data...)) {
		t.Errorf("unexpected page transaction % x", got[0])
	}
	if !bytes.Equal(got[1], []byte{0x80, 0xaf}) {
		t.Errorf("unexpected command transaction % x", got[1])
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Transact(ctx, 0x80, 0xae); !errors.Is(err, context.Canceled) {
		t.Errorf("expected %v, got %v", context.Canceled, err)
	}
}
