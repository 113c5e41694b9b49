// Package notify adaptadores de notificación salientes.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jhoicas/Aguaflow-api/internal/application/tanks"
	"github.com/jhoicas/Aguaflow-api/internal/domain/entity"
	"github.com/jhoicas/Aguaflow-api/pkg/logger"
)

// Verificar en tiempo de compilación que SlackNotifier implementa LevelNotifier.
var _ tanks.LevelNotifier = (*SlackNotifier)(nil)

// SlackNotifier publica avisos de nivel bajo de tanque en un webhook de Slack.
// Con webhookURL vacío todos los avisos se omiten silenciosamente (retorna true).
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	log        *logger.Logger
}

// NewSlackNotifier construye el adaptador.
func NewSlackNotifier(webhookURL string, log *logger.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

type slackMessage struct {
	Text string `json:"text"`
}

// NotifyTankLevel envía el aviso. Devuelve false si el envío falló; el caller
// decide qué hacer con el fallo (el consumo FIFO solo lo registra en el log).
func (n *SlackNotifier) NotifyTankLevel(product *entity.Product) bool {
	if n.webhookURL == "" {
		return true
	}

	msg := slackMessage{
		Text: fmt.Sprintf("⚠️ Tanque %q al %d%% de capacidad (%s L de %s L). Programar recarga.",
			product.Name, product.LevelPercent(), product.Quantity.String(), product.Capacity.String()),
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return false
	}

	resp, err := n.httpClient.Post(n.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		n.log.Warn().Err(err).Str("product_id", product.ID).Msg("webhook de Slack inaccesible")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.log.Warn().Int("status", resp.StatusCode).Str("product_id", product.ID).Msg("webhook de Slack rechazó el aviso")
		return false
	}
	return true
}
