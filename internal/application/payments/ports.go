package payments

import (
	"context"

	"github.com/jhoicas/Aguaflow-api/internal/domain/repository"
)

// TxRunner ejecuta una función con un repositorio de pagos atado a una
// transacción de BD cuando el despliegue lo soporta (Supported()==true).
//
// Cuando no hay transacciones disponibles (pooler en modo statement), la
// implementación ejecuta la misma función contra el pool: cada paso sigue
// siendo un update atómico individual, pero una caída a mitad de secuencia
// deja el progreso parcial confirmado. La clave de reserva del lote garantiza
// que ese lote nunca se re-aplica al reintentar.
type TxRunner interface {
	Supported() bool
	Run(ctx context.Context, fn func(payments repository.PaymentRepository) error) error
}
