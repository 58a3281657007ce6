package cli_test

import (
	"errors"
	"testing"

	"clipcut/internal/catalog"
	"clipcut/internal/cli"
)

func splitCatalog(t *testing.T, audio string) *catalog.Catalog {
	t.Helper()
	body := "sources:\n  \"2012\":\n    title: Annual address 2012\n"
	if audio != "" {
		body += "    audio: " + audio + "\n"
	}
	c, err := catalog.Parse([]byte(body))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestSplit_UnknownSource(t *testing.T) {
	env, _ := newEnv(t,
		cli.WithConfigLoader(stubConfigLoader{cfg: testConfig(t)}),
		cli.WithCatalogLoader(stubCatalogLoader{cat: splitCatalog(t, "")}),
	)
	cmd := cli.SplitCmd(env)
	cmd.SetArgs([]string{"1999"})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	if err := cmd.Execute(); !errors.Is(err, catalog.ErrUnknownSource) {
		t.Errorf("error = %v, want ErrUnknownSource", err)
	}
}

func TestSplit_NoAudioField(t *testing.T) {
	env, _ := newEnv(t,
		cli.WithConfigLoader(stubConfigLoader{cfg: testConfig(t)}),
		cli.WithCatalogLoader(stubCatalogLoader{cat: splitCatalog(t, "")}),
	)
	cmd := cli.SplitCmd(env)
	cmd.SetArgs([]string{"2012"})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	if err := cmd.Execute(); !errors.Is(err, cli.ErrMissingField) {
		t.Errorf("error = %v, want ErrMissingField", err)
	}
}

func TestSplit_MissingInputFile(t *testing.T) {
	env, _ := newEnv(t,
		cli.WithConfigLoader(stubConfigLoader{cfg: testConfig(t)}),
		cli.WithCatalogLoader(stubCatalogLoader{cat: splitCatalog(t, "/nonexistent/track.mp3")}),
	)
	cmd := cli.SplitCmd(env)
	cmd.SetArgs([]string{"2012"})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	if err := cmd.Execute(); !errors.Is(err, cli.ErrFileNotFound) {
		t.Errorf("error = %v, want ErrFileNotFound", err)
	}
}
