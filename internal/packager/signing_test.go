package packager

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/widgetc/internal/diag"
	"github.com/roach88/widgetc/internal/ir"
	"github.com/roach88/widgetc/internal/localize"
	"github.com/roach88/widgetc/internal/session"
	"github.com/roach88/widgetc/internal/testutil"
)

func withKeys(s session.Session) *session.Session {
	s.Keystore = "/keys/author.p12"
	s.KeystoreCsk = "/keys/barsigner.csk"
	s.KeystoreDb = "/keys/barsigner.db"
	return &s
}

func TestValidateSigning(t *testing.T) {
	tests := []struct {
		name          string
		sess          *session.Session
		manifestBuild string
		wantErr       localize.Key
		wantWarnings  []localize.Key
		wantParam     string
	}{
		{
			name: "nothing requested",
			sess: &session.Session{},
		},
		{
			name:          "override without keystore",
			sess:          &session.Session{BuildID: "100", StorePass: "pw"},
			manifestBuild: "100",
			wantErr:       localize.MissingSigningKeyFile,
			wantParam:     session.ArtifactKeystore,
		},
		{
			name:      "password without keystore",
			sess:      &session.Session{StorePass: "pw"},
			wantErr:   localize.MissingSigningKeyFile,
			wantParam: session.ArtifactKeystore,
		},
		{
			name:          "override names first missing artifact",
			sess:          &session.Session{BuildID: "100", StorePass: "pw", Keystore: "/k/author.p12"},
			manifestBuild: "100",
			wantErr:       localize.MissingSigningKeyFile,
			wantParam:     session.ArtifactKeystoreCsk,
		},
		{
			name:          "manifest build id without keystore",
			sess:          &session.Session{},
			manifestBuild: "50",
			wantWarnings:  []localize.Key{localize.MissingSigningKeyFileWarning, localize.SigningPasswordExpected},
			wantParam:     session.ArtifactKeystore,
		},
		{
			name:          "manifest build id with keys and no password",
			sess:          withKeys(session.Session{}),
			manifestBuild: "50",
			wantWarnings:  []localize.Key{localize.SigningPasswordExpected},
		},
		{
			name:    "keys and password without build id",
			sess:    withKeys(session.Session{StorePass: "pw"}),
			wantErr: localize.MissingSigningBuildID,
		},
		{
			name:          "override with keys and no password",
			sess:          withKeys(session.Session{BuildID: "100"}),
			manifestBuild: "100",
			wantErr:       localize.MissingSigningPassword,
		},
		{
			name:          "fully signed",
			sess:          withKeys(session.Session{BuildID: "100", StorePass: "pw"}),
			manifestBuild: "100",
		},
		{
			name:          "manifest build id fully signed",
			sess:          withKeys(session.Session{StorePass: "pw"}),
			manifestBuild: "50",
		},
		{
			name: "keys without password or build id",
			sess: withKeys(session.Session{}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &ir.Config{BuildID: tt.manifestBuild}
			logger, rec := testutil.NewRecordingLogger()

			warnings, err := ValidateSigning(tt.sess, cfg, logger)

			if tt.wantErr != "" {
				require.Error(t, err)
				de, ok := diag.As(err)
				require.True(t, ok)
				assert.Equal(t, diag.KindSigning, de.Kind)
				assert.Equal(t, tt.wantErr, de.Key)
				if tt.wantParam != "" {
					assert.Contains(t, de.Message(), tt.wantParam)
				}
				return
			}

			require.NoError(t, err)
			var keys []localize.Key
			for _, w := range warnings {
				keys = append(keys, w.Key)
			}
			assert.Equal(t, tt.wantWarnings, keys)
			assert.Len(t, rec.AtLevel(slog.LevelWarn), len(tt.wantWarnings))
			if tt.wantParam != "" {
				require.NotEmpty(t, warnings)
				assert.Contains(t, warnings[0].Message(), tt.wantParam)
			}
		})
	}
}
