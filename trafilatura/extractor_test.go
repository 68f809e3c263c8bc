package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/isocert"
	"github.com/fwojciec/isocert/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aboutPage = `<!DOCTYPE html>
<html>
<head>
<title>회사소개 - 대한정밀</title>
<meta property="og:title" content="대한정밀 회사소개">
</head>
<body>
<nav><a href="/">홈</a><a href="/products">제품</a><a href="/contact">문의</a></nav>
<article>
<h1>품질경영</h1>
<p>대한정밀은 2021년 한국표준협회(KSA)로부터 ISO 9001:2015 품질경영시스템 인증을 획득하였습니다.</p>
<p>또한 ISO 14001:2015 환경경영시스템 인증을 유지하며 지속가능한 생산 체계를 운영하고 있습니다.</p>
<table>
<tr><th>인증</th><th>인증기관</th><th>유효기간</th></tr>
<tr><td>ISO 9001:2015</td><td>KSA</td><td>2027-03-31</td></tr>
</table>
</article>
<footer>Copyright 대한정밀. All rights reserved.</footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(aboutPage)

		require.NoError(t, err)
		assert.NotEmpty(t, result.Title)
	})

	t.Run("keeps certification statements", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(aboutPage)

		require.NoError(t, err)
		assert.Contains(t, result.ContentHTML, "ISO 9001:2015")
		assert.Contains(t, result.ContentHTML, "ISO 14001:2015")
	})

	t.Run("drops navigation", func(t *testing.T) {
		t.Parallel()

		result, err := trafilatura.NewExtractor().Extract(aboutPage)

		require.NoError(t, err)
		assert.NotContains(t, result.ContentHTML, `href="/products"`)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract("  ")

		require.Error(t, err)
		assert.Equal(t, isocert.EINVALID, isocert.ErrorCode(err))
	})
}
