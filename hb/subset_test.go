package hb

import (
	"errors"
	"testing"

	"github.com/npillmayer/glyphkit/internal/engine"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/gofont/goregular"
)

type SubsetTestSuite struct {
	suite.Suite
	teardown func()
	stats    engine.Counters
}

func TestSubsetRequests(t *testing.T) {
	suite.Run(t, new(SubsetTestSuite))
}

func (s *SubsetTestSuite) SetupSuite() {
	s.teardown = gotestingadapter.QuickConfig(s.T(), "glyphkit.hb")
}

func (s *SubsetTestSuite) TearDownSuite() {
	s.teardown()
}

func (s *SubsetTestSuite) SetupTest() {
	s.stats = engine.Stats()
}

// Every test must leave the handle table as it found it.
func (s *SubsetTestSuite) TearDownTest() {
	after := engine.Stats()
	s.Equal(s.stats.Live, after.Live, "live objects")
	s.Equal(s.stats.Outstanding, after.Outstanding, "outstanding references")
}

func (s *SubsetTestSuite) face() *Owned[Face] {
	face, err := NewFace(goregular.TTF, 0)
	s.Require().NoError(err)
	return face
}

func (s *SubsetTestSuite) request() *Owned[SubsetRequest] {
	req, err := NewSubsetRequest()
	s.Require().NoError(err)
	return req
}

func (s *SubsetTestSuite) TestFreshRequest() {
	req := s.request()
	defer req.Close()
	r := req.Get()
	s.Equal(0, r.Unicodes().Len())
	s.Equal(0, r.Glyphs().Len())
	s.True(r.DropTables().ContainsTag("morx"))
	s.True(r.LayoutFeatures().ContainsTag("kern"))
	s.True(r.LayoutScripts().IsInverted())
}

func (s *SubsetTestSuite) TestClearDropTables() {
	req := s.request()
	defer req.Close()
	r := req.Get()
	r.ClearDropTables()
	s.Equal(0, r.DropTables().Len())
	r.DropTable("post", "name")
	s.Equal([]string{"name", "post"}, r.DropTables().Tags())
}

func (s *SubsetTestSuite) TestRetainAllLayout() {
	req := s.request()
	defer req.Close()
	r := req.Get()
	r.RetainAllLayout()
	for _, set := range []*CodepointSet{r.LayoutFeatures(), r.LayoutScripts()} {
		s.True(set.IsInverted())
		s.True(set.ContainsTag("smcp"))
		s.True(set.ContainsTag("zzzz"))
	}
	r.RetainAllLayout()
	s.True(r.LayoutFeatures().IsInverted(), "repeating keeps everything")
}

func (s *SubsetTestSuite) TestExecuteKeepsCodepoints() {
	req := s.request()
	defer req.Close()
	r := req.Get()
	r.ClearDropTables()
	r.RetainAllLayout()
	r.Unicodes().Add(32, 33, 34)
	face := s.face()
	raw := face.AsRaw()
	subset := r.Execute(face)
	defer subset.Close()
	s.False(face.Alive(), "face is consumed")
	s.False(engine.Alive(raw))
	s.Equal([]uint32{32, 33, 34}, subset.Get().Unicodes())
	s.True(subset.Get().HasTable("glyf"))
}

func (s *SubsetTestSuite) TestExecuteWithSharedFace() {
	req := s.request()
	defer req.Close()
	req.Get().Unicodes().Add('a')
	face := s.face()
	keep := face.Share()
	defer keep.Close()
	subset := req.Get().Execute(face)
	defer subset.Close()
	s.False(face.Alive())
	s.True(keep.Alive(), "other owners are unaffected")
	s.Less(len(subset.Get().Data()), len(keep.Get().Data()))
}

// noCmapFace produces a face without character map, which cannot be
// subset by codepoints.
func (s *SubsetTestSuite) noCmapFace() *Owned[Face] {
	req := s.request()
	defer req.Close()
	req.Get().DropTable("cmap")
	out, err := req.Get().TryExecute(s.face())
	s.Require().NoError(err)
	s.Require().False(out.Get().HasTable("cmap"))
	return out
}

func (s *SubsetTestSuite) TestTryExecuteFailure() {
	req := s.request()
	defer req.Close()
	req.Get().Unicodes().Add('a')
	face := s.noCmapFace()
	out, err := req.Get().TryExecute(face)
	s.Nil(out)
	s.Require().Error(err)
	s.True(errors.Is(err, ErrSubsetFailed))
	var ferr engine.FontError
	s.Require().True(errors.As(err, &ferr))
	s.Equal("cmap", ferr.Table)
	s.False(face.Alive(), "face is consumed on failure, too")
}

func (s *SubsetTestSuite) TestExecutePanicsOnFailure() {
	req := s.request()
	defer req.Close()
	face := s.noCmapFace()
	err := recoverErr(func() { req.Get().Execute(face) })
	s.True(errors.Is(err, ErrSubsetFailed))
	s.False(face.Alive())
}

func (s *SubsetTestSuite) TestExecuteConsumedFacePanics() {
	req := s.request()
	defer req.Close()
	face := s.face()
	face.Close()
	err := recoverErr(func() { req.Get().Execute(face) })
	s.True(errors.Is(err, ErrReleased))
}
