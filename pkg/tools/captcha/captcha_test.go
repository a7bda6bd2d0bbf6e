package captcha

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/surf/pkg/computer"
	"github.com/entrhq/surf/pkg/types"
)

type fakeComputer struct {
	typed   string
	pressed [][]string
	shotErr error
}

func (f *fakeComputer) Screenshot() ([]byte, error) {
	if f.shotErr != nil {
		return nil, f.shotErr
	}
	return []byte("png-bytes"), nil
}
func (f *fakeComputer) Click(x, y int, button types.MouseButton) error { return nil }
func (f *fakeComputer) DoubleClick(x, y int) error                     { return nil }
func (f *fakeComputer) Scroll(x, y, dx, dy int) error                  { return nil }
func (f *fakeComputer) Type(text string) error {
	f.typed += text
	return nil
}
func (f *fakeComputer) Keypress(keys []string) error {
	f.pressed = append(f.pressed, keys)
	return nil
}
func (f *fakeComputer) Wait(d time.Duration) error        { return nil }
func (f *fakeComputer) Move(x, y int) error               { return nil }
func (f *fakeComputer) Drag(path []types.Point) error     { return nil }
func (f *fakeComputer) Dimensions() (int, int)            { return 1024, 768 }
func (f *fakeComputer) Environment() computer.Environment { return computer.EnvironmentBrowser }
func (f *fakeComputer) Close() error                      { return nil }

type fakeVision struct {
	answer   string
	err      error
	gotImage string
}

func (f *fakeVision) CompleteVision(ctx context.Context, system, prompt, imageDataURL string) (string, error) {
	f.gotImage = imageDataURL
	return f.answer, f.err
}

func TestExecuteTypesAnswer(t *testing.T) {
	comp := &fakeComputer{}
	vision := &fakeVision{answer: " ABC12345 \n"}
	tool := New(comp, vision)

	result, err := tool.Execute(context.Background(), map[string]interface{}{})
	require.NoError(t, err)

	assert.Equal(t, "ABC12345", comp.typed)
	assert.Empty(t, comp.pressed)
	assert.Contains(t, result, `"ABC12345"`)
	assert.True(t, strings.HasPrefix(vision.gotImage, "data:image/png;base64,"))
}

func TestExecuteSubmitPressesEnter(t *testing.T) {
	comp := &fakeComputer{}
	tool := New(comp, &fakeVision{answer: "XY99"})

	_, err := tool.Execute(context.Background(), map[string]interface{}{"submit": true})
	require.NoError(t, err)

	assert.Equal(t, "XY99", comp.typed)
	require.Len(t, comp.pressed, 1)
	assert.Equal(t, []string{"enter"}, comp.pressed[0])
}

func TestExecuteNoCaptchaDetected(t *testing.T) {
	for _, answer := range []string{"NONE", "none", "", "  "} {
		comp := &fakeComputer{}
		tool := New(comp, &fakeVision{answer: answer})

		result, err := tool.Execute(context.Background(), nil)
		require.NoError(t, err, "answer %q", answer)
		assert.Empty(t, comp.typed)
		assert.Contains(t, result, "no CAPTCHA")
	}
}

func TestExecuteScreenshotFailure(t *testing.T) {
	comp := &fakeComputer{shotErr: errors.New("page gone")}
	tool := New(comp, &fakeVision{answer: "ABC"})

	_, err := tool.Execute(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capture")
}

func TestExecuteVisionFailure(t *testing.T) {
	comp := &fakeComputer{}
	tool := New(comp, &fakeVision{err: fmt.Errorf("model offline")})

	_, err := tool.Execute(context.Background(), nil)
	require.Error(t, err)
	assert.Empty(t, comp.typed)
}

func TestSchemaShape(t *testing.T) {
	tool := New(&fakeComputer{}, &fakeVision{})

	assert.Equal(t, "solve_captcha", tool.Name())
	schema := tool.Schema()
	props := schema["properties"].(map[string]interface{})
	_, ok := props["submit"]
	assert.True(t, ok)
	assert.Equal(t, false, schema["additionalProperties"])
}
