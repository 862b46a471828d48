package sink

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/drugnet/pkg/metrics"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, c.Write(&metric))
	return metric.Counter.GetValue()
}

func TestFileSink_Plain(t *testing.T) {
	dir := t.TempDir()
	m := metrics.NewRegistry()
	s := &FileSink{Dir: dir, Metrics: m}

	require.NoError(t, s.Put(context.Background(), "Cocaine_2010.gml", []byte("graph [\n]\n")))

	data, err := ReadFile(filepath.Join(dir, "Cocaine_2010.gml"))
	require.NoError(t, err)
	assert.Equal(t, "graph [\n]\n", string(data))
	assert.Equal(t, 1.0, counterValue(t, m.ArtifactsWritten.WithLabelValues("file", "success")))
	assert.Equal(t, 10.0, counterValue(t, m.ArtifactBytes.WithLabelValues("file")))
}

func TestFileSink_Compressed(t *testing.T) {
	dir := t.TempDir()
	s := &FileSink{Dir: dir, Compress: true}
	payload := []byte(`{"drug":"Cocaine","label":"2010"}`)

	require.NoError(t, s.Put(context.Background(), "Cocaine_2010.json", payload))

	_, err := os.Stat(filepath.Join(dir, "Cocaine_2010.json"))
	assert.True(t, os.IsNotExist(err))
	data, err := ReadFile(filepath.Join(dir, "Cocaine_2010.json"+CompressedSuffix))
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestFileSink_RejectsBadNames(t *testing.T) {
	s := &FileSink{Dir: t.TempDir()}
	for _, name := range []string{"", "../x.gml", "a/b.gml", "/etc/passwd"} {
		assert.ErrorIs(t, s.Put(context.Background(), name, nil), ErrBadName, name)
	}
}

func TestFileSink_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &FileSink{Dir: t.TempDir()}
	assert.ErrorIs(t, s.Put(ctx, "Cocaine_2010.gml", []byte("x")), context.Canceled)
}

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Sink(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	id := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")
	m := metrics.NewRegistry()
	s := &S3Sink{Client: fake, Bucket: "exports", Prefix: "/networks/", RunID: id, Metrics: m}

	require.NoError(t, s.Put(context.Background(), "Cocaine_nodes_2010.csv", []byte("Country\n")))

	key := "exports/networks/" + id.String() + "/Cocaine_nodes_2010.csv"
	assert.Equal(t, []byte("Country\n"), fake.objects[key])
	assert.Equal(t, "text/csv", fake.types[key])
	assert.Equal(t, 1.0, counterValue(t, m.ArtifactsWritten.WithLabelValues("s3", "success")))

	s.RunID = uuid.Nil
	s.Prefix = ""
	assert.Equal(t, "Cocaine_2010.gml", s.Key("Cocaine_2010.gml"))
}

func TestS3Sink_Error(t *testing.T) {
	boom := errors.New("access denied")
	m := metrics.NewRegistry()
	s := &S3Sink{Client: &fakeS3{err: boom}, Bucket: "exports", Metrics: m}

	err := s.Put(context.Background(), "Cocaine_2010.gml", []byte("x"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1.0, counterValue(t, m.ArtifactsWritten.WithLabelValues("s3", "error")))
}

func TestMultiSink(t *testing.T) {
	boom := errors.New("access denied")
	dir := t.TempDir()
	m := MultiSink{
		&FileSink{Dir: dir},
		&S3Sink{Client: &fakeS3{err: boom}, Bucket: "exports"},
	}

	err := m.Put(context.Background(), "Cocaine_2010.gml", []byte("graph"))
	assert.ErrorIs(t, err, boom)

	data, readErr := ReadFile(filepath.Join(dir, "Cocaine_2010.gml"))
	require.NoError(t, readErr)
	assert.Equal(t, "graph", string(data), "later failures do not undo earlier writes")
}
